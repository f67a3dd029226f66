// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package signature

// automaton is an Aho-Corasick keyword matcher. It finds occurrences of
// every keyword in a single pass over the input, O(n + m + z) where n is
// the input length, m the total keyword length and z the number of hits.
//
// The automaton is immutable once built and safe for concurrent use.
type automaton struct {
	root     *acNode
	keywords []Signature
}

type acNode struct {
	children map[byte]*acNode
	failure  *acNode
	output   []int // indices into keywords ending at this node
}

func newACNode() *acNode {
	return &acNode{children: make(map[byte]*acNode)}
}

// buildAutomaton constructs the trie and failure links for sigs. Keyword
// text must already be normalized.
func buildAutomaton(sigs []Signature) *automaton {
	ac := &automaton{root: newACNode()}
	for _, sig := range sigs {
		if sig.Pattern == "" {
			continue
		}
		ac.keywords = append(ac.keywords, sig)
		ac.insert(len(ac.keywords)-1, sig.Pattern)
	}
	ac.link()
	return ac
}

func (ac *automaton) insert(index int, pattern string) {
	node := ac.root
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
}

// link builds failure links breadth first.
func (ac *automaton) link() {
	queue := make([]*acNode, 0, len(ac.root.children))
	for _, child := range ac.root.children {
		child.failure = ac.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = ac.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// first returns the first keyword found in text.
func (ac *automaton) first(text string) (Signature, bool) {
	if len(ac.keywords) == 0 {
		return Signature{}, false
	}
	node := ac.root
	for i := 0; i < len(text); i++ {
		ch := text[i]
		for node != ac.root && node.children[ch] == nil {
			node = node.failure
		}
		if next := node.children[ch]; next != nil {
			node = next
		}
		if len(node.output) > 0 {
			return ac.keywords[node.output[0]], true
		}
	}
	return Signature{}, false
}

// all returns every keyword occurrence in text, in input order.
func (ac *automaton) all(text string) []Signature {
	if len(ac.keywords) == 0 {
		return nil
	}
	var hits []Signature
	node := ac.root
	for i := 0; i < len(text); i++ {
		ch := text[i]
		for node != ac.root && node.children[ch] == nil {
			node = node.failure
		}
		if next := node.children[ch]; next != nil {
			node = next
		}
		for _, idx := range node.output {
			hits = append(hits, ac.keywords[idx])
		}
	}
	return hits
}
