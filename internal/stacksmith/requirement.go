package stacksmith

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Operator expresses how a requirement's version number constrains the
// entity version the API picks.
type Operator int

const (
	Latest Operator = iota
	Dev
	Eq
	Gt
	Ge
	Lt
	Le
	Pessimistic
)

var operatorTokens = map[Operator]string{
	Latest:      "latest",
	Dev:         "dev",
	Eq:          "=",
	Gt:          ">",
	Ge:          ">=",
	Lt:          "<",
	Le:          "<=",
	Pessimistic: "~>",
}

var tokenOperators = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorTokens))
	for op, token := range operatorTokens {
		m[token] = op
	}
	return m
}()

// Token is the operator's API string fragment.
func (op Operator) Token() string {
	return operatorTokens[op]
}

// OperatorFromToken maps an API token back to an Operator. Tokens the API
// does not define fall back to Latest.
func OperatorFromToken(token string) Operator {
	if op, ok := tokenOperators[token]; ok {
		return op
	}
	return Latest
}

// NoneID is the reserved entity id meaning "no selection".
const NoneID = "NONE"

// NoRequirement is the placeholder requirement meaning no constraint was
// specified. The API never sees it; callers filter it out.
var NoRequirement = Requirement{id: NoneID, operator: Latest}

// Requirement asks the API for an entity version matching an operator and
// version number, e.g. id "java" with Ge "1.7". The version number is
// required unless the operator is Latest or Dev, which stand alone.
type Requirement struct {
	id       string
	operator Operator
	version  string
}

// NewRequirement validates and builds a requirement. It fails when the
// operator needs a version number and none was given.
func NewRequirement(id string, operator Operator, version string) (Requirement, error) {
	if version == "" && operator != Latest && operator != Dev {
		return Requirement{}, fmt.Errorf("version number required for operator %q", operator.Token())
	}
	return Requirement{id: id, operator: operator, version: version}, nil
}

// ID is the entity id this requirement constrains.
func (r Requirement) ID() string { return r.id }

// Operator is the version operator.
func (r Requirement) Operator() Operator { return r.operator }

// VersionNumber is the requested version, empty for Latest/Dev.
func (r Requirement) VersionNumber() string { return r.version }

// IsNone reports whether this is the no-constraint placeholder.
func (r Requirement) IsNone() bool { return r.id == NoneID }

// VersionString renders the operator and version the way the API expects:
// "latest", "dev", or "<token> <version>".
func (r Requirement) VersionString() string {
	if r.operator == Latest || r.operator == Dev {
		return r.operator.Token()
	}
	return r.operator.Token() + " " + r.version
}

// MarshalJSON emits the API shape {"id": ..., "version": "<token> [ver]"}.
func (r Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	}{ID: r.id, Version: r.VersionString()})
}

// RequirementFrom builds a requirement from raw strings, e.g. values read
// from flags or a config file. A missing id, the reserved NONE id, or a
// violated construction invariant all downgrade to NoRequirement; the bad
// input is logged rather than propagated, so this never fails.
func RequirementFrom(logger *log.Logger, id, operatorToken, version string) Requirement {
	if id == "" || id == NoneID {
		return NoRequirement
	}
	req, err := NewRequirement(id, OperatorFromToken(operatorToken), version)
	if err != nil {
		if logger != nil {
			logger.Warn("cannot construct stack requirement",
				"id", id, "operator", operatorToken, "version", version, "err", err)
		}
		return NoRequirement
	}
	return req
}
