// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// The isExported rules below implement spec §4.4's per-language export
// detection table.

func exportedByLeadingUppercase(node *sitter.Node, source []byte) bool {
	name := definitionName(node, source)
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

func exportedByNoLeadingUnderscore(node *sitter.Node, source []byte) bool {
	name := definitionName(node, source)
	return name != "" && !strings.HasPrefix(name, "_")
}

func neverExported(*sitter.Node, []byte) bool {
	return false
}

func exportedByExportAncestorOrText(node *sitter.Node, source []byte) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "export_statement" {
			return true
		}
	}
	text := nodeText(node, source)
	return strings.HasPrefix(strings.TrimSpace(text), "export ")
}

func exportedByPublicModifier(node *sitter.Node, source []byte) bool {
	check := func(n *sitter.Node) bool {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == "modifier" && nodeText(child, source) == "public" {
				return true
			}
		}
		return false
	}
	if check(node) {
		return true
	}
	if p := node.Parent(); p != nil {
		return check(p)
	}
	return false
}

func exportedByVisibilityModifier(node *sitter.Node, source []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "visibility_modifier" {
			return true
		}
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		for i := 0; i < int(p.ChildCount()); i++ {
			if p.Child(i).Type() == "visibility_modifier" {
				return true
			}
		}
	}
	return false
}

func exportedByPHPRules(node *sitter.Node, source []byte) bool {
	if node.Parent() != nil && (node.Parent().Type() == "program" || node.Parent().Type() == "php_only_source_file") {
		return true
	}
	sibling := node.PrevNamedSibling()
	if sibling != nil && sibling.Type() == "visibility_modifier" {
		return nodeText(sibling, source) == "public"
	}
	return false
}

func exportedByNoPrivateInternal(node *sitter.Node, source []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		t := node.Child(i).Type()
		if t == "modifiers" {
			text := nodeText(node.Child(i), source)
			if strings.Contains(text, "private") || strings.Contains(text, "internal") {
				return false
			}
		}
	}
	return true
}
