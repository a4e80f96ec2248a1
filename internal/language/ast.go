package language

import "github.com/vektah/gqlparser/v2/ast"

// Queries are expressed in GraphQL selection syntax: a plain field is a leaf
// attribute request, a field with a selection set is a join (nested request),
// and an inline fragment or fragment spread is a polymorphic variant whose
// shape unions into the enclosing level.
type (
	QueryDocument          = ast.QueryDocument
	OperationDefinition    = ast.OperationDefinition
	SelectionSet           = ast.SelectionSet
	Selection              = ast.Selection
	Field                  = ast.Field
	InlineFragment         = ast.InlineFragment
	FragmentDefinition     = ast.FragmentDefinition
	FragmentDefinitionList = ast.FragmentDefinitionList
	FragmentSpread         = ast.FragmentSpread
	Position               = ast.Position
)
