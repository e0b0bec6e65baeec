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
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/graphkit/pkg/graph"
	"github.com/kraklabs/graphkit/pkg/lang"
)

// langSpec is the per-language table that drives the generic AST walk:
// which node types are definitions (and what kind each maps to), which
// are import statements, which are call expressions, and which carry
// heritage (extends/implements/trait-impl) information.
type langSpec struct {
	definitions map[string]graph.NodeKind
	imports     map[string]bool
	calls       map[string]bool
	heritage    map[string]bool
	isExported  func(node *sitter.Node, source []byte) bool
}

var specs = map[lang.Tag]langSpec{
	lang.Go: {
		definitions: map[string]graph.NodeKind{
			"function_declaration": graph.KindFunction,
			"method_declaration":   graph.KindMethod,
			"type_declaration":     graph.KindStruct,
			"const_declaration":    graph.KindConst,
			"var_declaration":      graph.KindStatic,
		},
		imports:    map[string]bool{"import_spec": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{},
		isExported: exportedByLeadingUppercase,
	},
	lang.TypeScript: {
		definitions: map[string]graph.NodeKind{
			"function_declaration":   graph.KindFunction,
			"method_definition":      graph.KindMethod,
			"class_declaration":      graph.KindClass,
			"interface_declaration":  graph.KindInterface,
			"type_alias_declaration": graph.KindTypeAlias,
		},
		imports:    map[string]bool{"import_statement": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{"class_heritage": true},
		isExported: exportedByExportAncestorOrText,
	},
	lang.JavaScript: {
		definitions: map[string]graph.NodeKind{
			"function_declaration": graph.KindFunction,
			"method_definition":    graph.KindMethod,
			"class_declaration":    graph.KindClass,
		},
		imports:    map[string]bool{"import_statement": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{"class_heritage": true},
		isExported: exportedByExportAncestorOrText,
	},
	lang.Python: {
		definitions: map[string]graph.NodeKind{
			"function_definition": graph.KindFunction,
			"class_definition":    graph.KindClass,
		},
		imports:    map[string]bool{"import_statement": true, "import_from_statement": true},
		calls:      map[string]bool{"call": true},
		heritage:   map[string]bool{"argument_list": true},
		isExported: exportedByNoLeadingUnderscore,
	},
	lang.Java: {
		definitions: map[string]graph.NodeKind{
			"class_declaration":       graph.KindClass,
			"interface_declaration":   graph.KindInterface,
			"method_declaration":      graph.KindMethod,
			"constructor_declaration": graph.KindConstructor,
			"enum_declaration":        graph.KindEnum,
		},
		imports:    map[string]bool{"import_declaration": true},
		calls:      map[string]bool{"method_invocation": true},
		heritage:   map[string]bool{"superclass": true, "super_interfaces": true},
		isExported: exportedByPublicModifier,
	},
	lang.C: {
		definitions: map[string]graph.NodeKind{
			"function_definition": graph.KindFunction,
			"struct_specifier":    graph.KindStruct,
			"enum_specifier":      graph.KindEnum,
			"union_specifier":     graph.KindUnion,
			"type_definition":     graph.KindTypedef,
		},
		imports:    map[string]bool{"preproc_include": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{},
		isExported: neverExported,
	},
	lang.CPP: {
		definitions: map[string]graph.NodeKind{
			"function_definition":  graph.KindFunction,
			"struct_specifier":     graph.KindStruct,
			"class_specifier":      graph.KindClass,
			"enum_specifier":       graph.KindEnum,
			"union_specifier":      graph.KindUnion,
			"namespace_definition": graph.KindNamespace,
			"template_declaration": graph.KindTemplate,
		},
		imports:    map[string]bool{"preproc_include": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{"base_class_clause": true},
		isExported: neverExported,
	},
	lang.CSharp: {
		definitions: map[string]graph.NodeKind{
			"class_declaration":       graph.KindClass,
			"interface_declaration":   graph.KindInterface,
			"method_declaration":      graph.KindMethod,
			"constructor_declaration": graph.KindConstructor,
			"enum_declaration":        graph.KindEnum,
			"struct_declaration":      graph.KindStruct,
		},
		imports:    map[string]bool{"using_directive": true},
		calls:      map[string]bool{"invocation_expression": true},
		heritage:   map[string]bool{"base_list": true},
		isExported: exportedByPublicModifier,
	},
	lang.Rust: {
		definitions: map[string]graph.NodeKind{
			"function_item":    graph.KindFunction,
			"struct_item":      graph.KindStruct,
			"enum_item":        graph.KindEnum,
			"trait_item":       graph.KindTrait,
			"impl_item":        graph.KindImpl,
			"const_item":       graph.KindConst,
			"static_item":      graph.KindStatic,
			"macro_definition": graph.KindMacro,
		},
		imports:    map[string]bool{"use_declaration": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{},
		isExported: exportedByVisibilityModifier,
	},
	lang.PHP: {
		definitions: map[string]graph.NodeKind{
			"function_definition":   graph.KindFunction,
			"method_declaration":    graph.KindMethod,
			"class_declaration":     graph.KindClass,
			"interface_declaration": graph.KindInterface,
		},
		imports:    map[string]bool{"namespace_use_declaration": true},
		calls:      map[string]bool{"function_call_expression": true},
		heritage:   map[string]bool{"base_clause": true, "class_interface_clause": true},
		isExported: exportedByPHPRules,
	},
	lang.Kotlin: {
		definitions: map[string]graph.NodeKind{
			"function_declaration": graph.KindFunction,
			"class_declaration":    graph.KindClass,
			"object_declaration":   graph.KindModule,
		},
		imports:    map[string]bool{"import_header": true},
		calls:      map[string]bool{"call_expression": true},
		heritage:   map[string]bool{"delegation_specifier": true},
		isExported: exportedByNoPrivateInternal,
	},
}
