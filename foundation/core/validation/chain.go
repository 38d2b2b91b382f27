// File: chain.go
// Title: Validator Chains
// Description: Sequential composition of validators and per-field rule sets.
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validator chain implementation
// - 2025-12-14 v0.2.0: Added FieldSet, removed parallel and conditional validators

package validation

import (
	"fmt"
)

// ValidatorChain runs validators in order against the same value
type ValidatorChain struct {
	name       string
	validators []Validator
	stopOnFail bool
}

// NewValidatorChain creates an empty chain. By default it stops at the first failure.
func NewValidatorChain(name string) *ValidatorChain {
	return &ValidatorChain{name: name, stopOnFail: true}
}

// Add appends a validator to the chain
func (c *ValidatorChain) Add(validator Validator) *ValidatorChain {
	c.validators = append(c.validators, validator)
	return c
}

// AddFunc appends a validator function to the chain
func (c *ValidatorChain) AddFunc(fn ValidatorFunc) *ValidatorChain {
	return c.Add(fn)
}

// StopOnFirstError controls whether the chain continues after a failure
func (c *ValidatorChain) StopOnFirstError(stop bool) *ValidatorChain {
	c.stopOnFail = stop
	return c
}

// Validate runs the chain. Errors are attributed to the chain name.
func (c *ValidatorChain) Validate(value interface{}) ValidationResult {
	result := NewValidationResult()
	for _, v := range c.validators {
		r := v.Validate(value)
		if r.Valid {
			continue
		}
		if c.name != "" {
			r = r.ForField(c.name)
		}
		result = Combine(result, r)
		if c.stopOnFail {
			break
		}
	}
	return result
}

// Length returns the number of validators in the chain
func (c *ValidatorChain) Length() int {
	return len(c.validators)
}

// Name returns the chain name
func (c *ValidatorChain) Name() string {
	return c.name
}

// String returns a short description of the chain
func (c *ValidatorChain) String() string {
	return fmt.Sprintf("ValidatorChain{name: %s, validators: %d}", c.name, len(c.validators))
}

// FieldSet validates a set of named values, one chain per field, in the
// order the fields were added.
type FieldSet struct {
	order  []string
	chains map[string]*ValidatorChain
	values map[string]interface{}
}

// NewFieldSet creates an empty field set
func NewFieldSet() *FieldSet {
	return &FieldSet{
		chains: make(map[string]*ValidatorChain),
		values: make(map[string]interface{}),
	}
}

// Field registers value under name with the given validators
func (s *FieldSet) Field(name string, value interface{}, validators ...Validator) *FieldSet {
	chain, ok := s.chains[name]
	if !ok {
		chain = NewValidatorChain(name)
		s.chains[name] = chain
		s.order = append(s.order, name)
	}
	for _, v := range validators {
		chain.Add(v)
	}
	s.values[name] = value
	return s
}

// Validate runs every field chain and combines the results
func (s *FieldSet) Validate() ValidationResult {
	results := make([]ValidationResult, 0, len(s.order))
	for _, name := range s.order {
		results = append(results, s.chains[name].Validate(s.values[name]))
	}
	return Combine(results...)
}
