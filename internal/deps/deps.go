package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency unimoji relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the programs unimoji shells out to. Without uni nothing
// works; without convert lookups still work but icons are never generated.
func Requirements(uniBinary, convertBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "uni",
			Command:     uniBinary,
			Description: "Emoji metadata for lookups and the icon list",
		},
		{
			Name:        "convert",
			Command:     convertBinary,
			Description: "ImageMagick renderer for cached icons",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}
