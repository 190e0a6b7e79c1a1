// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
expression.go - Earth Engine Expression Graph Construction

Builds the expression graphs the Earth Engine v1 REST API evaluates.
An expression is a DAG of function invocations over constants; the
wire form is a flat table of indexed values where invocations refer to
their arguments either inline or by table index.

Graphs are built with four constructors:

	Constant - literal numbers, strings, bools, and JSON-shaped slices
	Array    - ordered element lists that may reference other nodes
	Dict     - string-keyed value maps that may reference other nodes
	Invoke   - a named Earth Engine algorithm applied to keyword args

Serialize flattens a graph into the wire form. Nodes are deduplicated
by identity: a region geometry shared by every layer of an analysis
serializes once and is referenced by index everywhere else.
*/

package gee

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

type nodeKind int

const (
	nodeConstant nodeKind = iota
	nodeArray
	nodeDict
	nodeCall
)

// Args holds the keyword arguments of a function invocation.
type Args map[string]*Node

// Node is a single vertex in an expression graph. Nodes are built with
// the package constructors and must not be mutated after construction.
type Node struct {
	kind     nodeKind
	constant interface{}
	elems    []*Node
	entries  map[string]*Node
	fn       string
	args     Args
}

// Constant wraps a literal value. The value must marshal cleanly to
// JSON; numbers, strings, bools, nil, and nested slices all qualify.
func Constant(v interface{}) *Node {
	return &Node{kind: nodeConstant, constant: v}
}

// Array builds an ordered list whose elements may be any graph nodes,
// including function invocations.
func Array(elems ...*Node) *Node {
	return &Node{kind: nodeArray, elems: elems}
}

// Dict builds a string-keyed map whose values may be any graph nodes.
func Dict(entries map[string]*Node) *Node {
	return &Node{kind: nodeDict, entries: entries}
}

// Invoke applies a named Earth Engine algorithm to keyword arguments.
func Invoke(fn string, args Args) *Node {
	return &Node{kind: nodeCall, fn: fn, args: args}
}

// Expression is the wire form of a serialized graph, matching the JSON
// layout of the Earth Engine v1 Expression message.
type Expression struct {
	Values map[string]interface{} `json:"values"`
	Result string                 `json:"result"`
}

// Serialize flattens an expression graph into its wire form. Function
// invocations are hoisted into the value table in deterministic
// postorder; constants, arrays, and dictionaries are emitted inline at
// each use site. Shared subtrees are emitted once.
func Serialize(root *Node) (*Expression, error) {
	if root == nil {
		return nil, errors.New("expression graph has nil root")
	}
	s := &serializer{
		indices: make(map[*Node]string),
		visited: make(map[*Node]bool),
	}
	if err := s.walk(root); err != nil {
		return nil, err
	}
	resultIdx := s.hoist(root)

	values := make(map[string]interface{}, len(s.indices))
	for n, idx := range s.indices {
		values[idx] = s.encodeValue(n)
	}
	return &Expression{Values: values, Result: resultIdx}, nil
}

type serializer struct {
	indices map[*Node]string
	visited map[*Node]bool
	next    int
}

// walk validates the graph and assigns table indices to every
// invocation in postorder, children before parents. Keyed children are
// visited in sorted order so index assignment is deterministic for
// identical graphs.
func (s *serializer) walk(n *Node) error {
	if n == nil {
		return errors.New("expression graph contains a nil node")
	}
	if s.visited[n] {
		return nil
	}
	s.visited[n] = true

	switch n.kind {
	case nodeConstant:
		return nil

	case nodeArray:
		for i, el := range n.elems {
			if el == nil {
				return fmt.Errorf("array element %d is nil", i)
			}
			if err := s.walk(el); err != nil {
				return err
			}
		}
		return nil

	case nodeDict:
		for _, key := range sortedNodeKeys(n.entries) {
			entry := n.entries[key]
			if entry == nil {
				return fmt.Errorf("dictionary entry %q is nil", key)
			}
			if err := s.walk(entry); err != nil {
				return err
			}
		}
		return nil

	case nodeCall:
		if n.fn == "" {
			return errors.New("function invocation has an empty name")
		}
		for _, key := range sortedNodeKeys(n.args) {
			arg := n.args[key]
			if arg == nil {
				return fmt.Errorf("argument %q of %s is nil", key, n.fn)
			}
			if err := s.walk(arg); err != nil {
				return err
			}
		}
		s.hoist(n)
		return nil
	}
	return fmt.Errorf("unknown node kind %d", n.kind)
}

func (s *serializer) hoist(n *Node) string {
	if idx, ok := s.indices[n]; ok {
		return idx
	}
	idx := strconv.Itoa(s.next)
	s.next++
	s.indices[n] = idx
	return idx
}

// encodeValue renders a node in its table slot, never as a reference.
func (s *serializer) encodeValue(n *Node) interface{} {
	switch n.kind {
	case nodeConstant:
		return map[string]interface{}{"constantValue": n.constant}

	case nodeArray:
		elems := make([]interface{}, len(n.elems))
		for i, el := range n.elems {
			elems[i] = s.encodeInline(el)
		}
		return map[string]interface{}{
			"arrayValue": map[string]interface{}{"values": elems},
		}

	case nodeDict:
		entries := make(map[string]interface{}, len(n.entries))
		for key, entry := range n.entries {
			entries[key] = s.encodeInline(entry)
		}
		return map[string]interface{}{
			"dictionaryValue": map[string]interface{}{"values": entries},
		}

	case nodeCall:
		args := make(map[string]interface{}, len(n.args))
		for key, arg := range n.args {
			args[key] = s.encodeInline(arg)
		}
		return map[string]interface{}{
			"functionInvocationValue": map[string]interface{}{
				"functionName": n.fn,
				"arguments":    args,
			},
		}
	}
	return nil
}

// encodeInline renders a node at a use site: hoisted nodes become
// table references, everything else is emitted in place.
func (s *serializer) encodeInline(n *Node) interface{} {
	if idx, ok := s.indices[n]; ok {
		return map[string]interface{}{"valueReference": idx}
	}
	return s.encodeValue(n)
}

func sortedNodeKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
