package docs

// Resource metadata for the type hints document exposed over MCP.
const (
	TypeHintsURI         = "pop://docs/type-hints"
	TypeHintsName        = "type-hints"
	TypeHintsTitle       = "Substrate Type Hints"
	TypeHintsDescription = "Type formatting hints for call_chain tool (MultiAddress, Option, Vec, Balance)"
	TypeHintsMIMEType    = "text/plain"
)

// TypeHints is appended to chain metadata output so callers format
// extrinsic arguments the way the CLI parser expects them.
const TypeHints = `

--- Type Formatting Hints ---

MultiAddress
  Wrap account IDs in the Id variant:
    Id(5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY)
  A bare SS58 string is not accepted where a MultiAddress is expected.

AccountId
  Plain SS58 string, no wrapper:
    5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY

Balance / u128
  Plain integer in base units (planck), no underscores or suffixes:
    1000000000000
  Remember decimals: 1 unit on a 12-decimal chain is 1000000000000.

Option<T>
  None           for the empty case
  Some(value)    to wrap a value, e.g. Some(100)

Vec<T>
  Bracketed, comma separated:
    [1,2,3]
  Vec<u8> may also be given as a hex string: 0x68656c6c6f

Bool
  true or false, lowercase.

Compact<T>
  Pass the plain number; compact encoding is applied automatically.

Dev accounts
  //Alice //Bob //Charlie //Dave //Eve //Ferdie are available on dev
  chains. Alice's address:
    5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY

Example
  pallet:   Balances
  function: transfer_allow_death
  args:     Id(5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty) 1000000000000
`
