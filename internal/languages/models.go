package languages

// Mode describes how the service handles code for a language.
type Mode string

const (
	// ModeInterpret runs the source file directly under an interpreter.
	ModeInterpret Mode = "interpret"
	// ModeCompile compiles the source to a scratch binary, then runs it.
	ModeCompile Mode = "compile"
	// ModePreview returns the source itself as a preview payload. No
	// subprocess is started.
	ModePreview Mode = "preview"
	// ModeEcho returns the source as informational text. JavaScript uses
	// this: the service never executes JS server-side, it defers to the
	// client browser's console.
	ModeEcho Mode = "echo"
)

// Placeholders substituted with scratch paths when a command is built.
const (
	SourcePlaceholder = "{src}"
	BinaryPlaceholder = "{bin}"
)

type Language struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Syntax    string `json:"syntax"`
	Template  string `json:"template"`
	Mode      Mode   `json:"-"`
	// CompileCommand and RunCommand may contain SourcePlaceholder and
	// BinaryPlaceholder tokens. CompileCommand is empty for interpreted
	// languages; both are empty for preview/echo languages.
	CompileCommand []string `json:"-"`
	RunCommand     []string `json:"-"`
}

// ExpandCommand substitutes scratch paths into a command template.
func ExpandCommand(template []string, srcPath, binPath string) []string {
	cmd := make([]string, len(template))
	for i, arg := range template {
		switch arg {
		case SourcePlaceholder:
			cmd[i] = srcPath
		case BinaryPlaceholder:
			cmd[i] = binPath
		default:
			cmd[i] = arg
		}
	}
	return cmd
}
