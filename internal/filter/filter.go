package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply applies filter and query expressions to a JSON document.
// Filter narrows results (e.g., content[?status=='ACTIVE'])
// Query transforms/selects fields (e.g., content[].username)
// If query is wrapped in $(...), it runs as a shell command with the document on stdin
func Apply(body []byte, filter string, query string) ([]byte, error) {
	result := body

	if filter != "" {
		filtered, err := applyJMESPath(result, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query != "" {
		if matches := shellPattern.FindStringSubmatch(query); len(matches) > 1 {
			queried, err := executeShellCommand(result, matches[1])
			if err != nil {
				return nil, fmt.Errorf("failed to execute query shell command: %w", err)
			}
			result = queried
		} else {
			queried, err := applyJMESPath(result, query)
			if err != nil {
				return nil, fmt.Errorf("failed to apply query: %w", err)
			}
			result = queried
		}
	}

	return result, nil
}

// Value applies a JMESPath expression to an already decoded value
func Value(data any, expression string) (any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// applyJMESPath applies a JMESPath expression to a JSON document
func applyJMESPath(doc []byte, expression string) ([]byte, error) {
	var data any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := Value(data, expression)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return []byte("null"), nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return output, nil
}

// executeShellCommand executes a shell command with the body piped to stdin
func executeShellCommand(body []byte, command string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return nil, fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return bytes.TrimSpace(stdout.Bytes()), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if a query is a shell command (starts with $(...))
func IsShellCommand(query string) bool {
	return shellPattern.MatchString(query)
}
