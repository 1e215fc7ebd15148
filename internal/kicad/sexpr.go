package kicad

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one parenthesized expression in a board file: a name, the atom
// values that follow it, and any nested expressions. Children keep file
// order, which downstream chaining depends on.
type Node struct {
	Name     string
	Atoms    []string
	Children []*Node
}

// Child returns the first child expression with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Atom returns atom i, or "" when there are fewer atoms than that.
func (n *Node) Atom(i int) string {
	if i < 0 || i >= len(n.Atoms) {
		return ""
	}
	return n.Atoms[i]
}

// Float parses atom i as a float64.
func (n *Node) Float(i int) (float64, error) {
	if i >= len(n.Atoms) {
		return 0, fmt.Errorf("%s: missing value %d", n.Name, i)
	}
	v, err := strconv.ParseFloat(n.Atoms[i], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: value %q is not a number", n.Name, n.Atoms[i])
	}
	return v, nil
}

// Parse reads the single top-level expression of an s-expression document.
func Parse(data []byte) (*Node, error) {
	s := &scanner{data: data}
	s.skipSpace()
	if s.pos >= len(s.data) {
		return nil, fmt.Errorf("empty document")
	}
	if s.data[s.pos] != '(' {
		return nil, fmt.Errorf("offset %d: document does not start with '('", s.pos)
	}
	root, err := s.parseList()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos < len(s.data) {
		return nil, fmt.Errorf("offset %d: trailing data after document", s.pos)
	}
	return root, nil
}

type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

// parseList consumes a '(' ... ')' expression. The leading '(' is at s.pos.
func (s *scanner) parseList() (*Node, error) {
	s.pos++
	n := &Node{}
	first := true
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			return nil, fmt.Errorf("offset %d: unterminated expression", s.pos)
		}
		switch s.data[s.pos] {
		case ')':
			s.pos++
			return n, nil
		case '(':
			child, err := s.parseList()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			first = false
		case '"':
			atom, err := s.parseQuoted()
			if err != nil {
				return nil, err
			}
			n.Atoms = append(n.Atoms, atom)
			first = false
		default:
			atom := s.parseBare()
			if first {
				n.Name = atom
				first = false
			} else {
				n.Atoms = append(n.Atoms, atom)
			}
		}
	}
}

func (s *scanner) parseQuoted() (string, error) {
	start := s.pos
	s.pos++
	var b strings.Builder
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch c {
		case '"':
			s.pos++
			return b.String(), nil
		case '\\':
			s.pos++
			if s.pos >= len(s.data) {
				return "", fmt.Errorf("offset %d: unterminated string", start)
			}
			switch s.data[s.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s.data[s.pos])
			}
			s.pos++
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", fmt.Errorf("offset %d: unterminated string", start)
}

func (s *scanner) parseBare() string {
	start := s.pos
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\r', '\n', '(', ')', '"':
			return string(s.data[start:s.pos])
		default:
			s.pos++
		}
	}
	return string(s.data[start:s.pos])
}
