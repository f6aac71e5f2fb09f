package docs

// DefaultPlatform is assumed when no platform is given.
const DefaultPlatform = "macos"

const (
	installMacOS = "# Installing Pop CLI on macOS\n\n" +
		"## Using Homebrew (Recommended)\n" +
		"```bash\nbrew install r0gue-io/pop-cli/pop\n```\n\n" +
		"## Verify Installation\n```bash\npop --version\n```"
	installLinux = "# Installing Pop CLI on Linux\n\n" +
		"## Using Cargo\n" +
		"```bash\ncargo install --force --locked pop-cli\n```\n\n" +
		"## Verify Installation\n```bash\npop --version\n```"
	installSource = "# Building Pop CLI from Source\n\n" +
		"```bash\ngit clone https://github.com/r0gue-io/pop-cli.git\n" +
		"cd pop-cli\ncargo install --path crates/pop-cli\n```\n\n" +
		"## Verify Installation\n```bash\npop --version\n```"
	installInvalid = "Invalid platform. Use 'macos', 'linux', or 'source'."
)

// InstallInstructions returns installation steps for the given platform.
// An empty platform defaults to macOS; an unknown one yields a message
// listing the accepted values rather than an error.
func InstallInstructions(platform string) string {
	if platform == "" {
		platform = DefaultPlatform
	}
	switch platform {
	case "macos":
		return installMacOS
	case "linux":
		return installLinux
	case "source":
		return installSource
	default:
		return installInvalid
	}
}
