// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import "fmt"

// UnknownPlaceholderError reports a placeholder name outside the fixed
// vocabulary the rule-based resolver understands.
type UnknownPlaceholderError struct {
	Name string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("unknown placeholder %q: expected TITLE, SUBTITLE, BODY, SECTION_<N>, DATE or TOC", e.Name)
}

// UnresolvedPlaceholderError reports a recognized placeholder that the
// content document cannot satisfy, e.g. SECTION_5 when only two sections
// were parsed.
type UnresolvedPlaceholderError struct {
	Name   string
	Reason string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("cannot resolve placeholder %q: %s", e.Name, e.Reason)
}

// ServiceUnavailableError reports that the remote completion call failed at
// the transport or HTTP level. It is never retried.
type ServiceUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("completion service at %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// ParseError reports a completion reply that does not conform to the
// assignment schema the prompt demands, or that leaves placeholders
// uncovered.
type ParseError struct {
	Reason string
	Reply  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse completion reply: %s", e.Reason)
}
