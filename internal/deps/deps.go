package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external executable subgen relies on.
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
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
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

// CheckResolved reports the availability of a tool located through a
// Resolver, so status output matches what extraction will execute.
func CheckResolved(name, description string, resolver *Resolver) Status {
	status := Status{Name: name, Description: description}
	if resolver == nil {
		status.Detail = "command not configured"
		return status
	}
	status.Command = resolver.Selected()
	path, err := resolver.Resolve()
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	status.Command = path
	status.Available = true
	return status
}
