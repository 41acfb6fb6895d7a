package sdl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	jsoniter "github.com/json-iterator/go"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// Print renders the schema as SDL. Types are emitted in name order with the
// roots first; built-in scalars and introspection types are left out.
func Print(schema graphql.Schema) string {
	var sb strings.Builder

	roots := []string{}
	if q := schema.QueryType(); q != nil {
		roots = append(roots, q.Name())
	}
	if m := schema.MutationType(); m != nil {
		roots = append(roots, m.Name())
	}

	isRoot := make(map[string]bool, len(roots))
	for _, name := range roots {
		isRoot[name] = true
	}

	typeMap := schema.TypeMap()
	names := make([]string, 0, len(typeMap))
	for name := range typeMap {
		if strings.HasPrefix(name, "__") || builtinScalars[name] || isRoot[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range append(roots, names...) {
		if i > 0 {
			sb.WriteString("\n")
		}
		printType(&sb, typeMap[name])
	}

	return sb.String()
}

func printType(sb *strings.Builder, t graphql.Type) {
	switch t := t.(type) {
	case *graphql.Object:
		printDescription(sb, "", t.Description())
		fmt.Fprintf(sb, "type %s {\n", t.Name())
		fields := t.Fields()
		for _, name := range sortedNames(fields) {
			field := fields[name]
			printDescription(sb, "  ", field.Description)
			sb.WriteString("  " + name)
			printArgs(sb, field.Args)
			fmt.Fprintf(sb, ": %s\n", field.Type.String())
		}
		sb.WriteString("}\n")
	case *graphql.InputObject:
		printDescription(sb, "", t.Description())
		fmt.Fprintf(sb, "input %s {\n", t.Name())
		fields := t.Fields()
		for _, name := range sortedNames(fields) {
			field := fields[name]
			printDescription(sb, "  ", field.Description())
			fmt.Fprintf(sb, "  %s: %s\n", name, field.Type.String())
		}
		sb.WriteString("}\n")
	case *graphql.Union:
		printDescription(sb, "", t.Description())
		members := make([]string, 0, len(t.Types()))
		for _, member := range t.Types() {
			members = append(members, member.Name())
		}
		fmt.Fprintf(sb, "union %s = %s\n", t.Name(), strings.Join(members, " | "))
	case *graphql.Scalar:
		printDescription(sb, "", t.Description())
		fmt.Fprintf(sb, "scalar %s\n", t.Name())
	case *graphql.Enum:
		printDescription(sb, "", t.Description())
		fmt.Fprintf(sb, "enum %s {\n", t.Name())
		for _, value := range t.Values() {
			fmt.Fprintf(sb, "  %s\n", value.Name)
		}
		sb.WriteString("}\n")
	}
}

func printArgs(sb *strings.Builder, args []*graphql.Argument) {
	if len(args) == 0 {
		return
	}
	sorted := make([]*graphql.Argument, len(args))
	copy(sorted, args)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	parts := make([]string, 0, len(sorted))
	for _, arg := range sorted {
		parts = append(parts, arg.Name()+": "+arg.Type.String())
	}
	sb.WriteString("(" + strings.Join(parts, ", ") + ")")
}

// printDescription writes description as a quoted string. JSON string
// escaping is valid GraphQL string escaping.
func printDescription(sb *strings.Builder, indent, description string) {
	if description == "" {
		return
	}
	quoted, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(description)
	if err != nil {
		return
	}
	sb.WriteString(indent + quoted + "\n")
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate parses sdl back and checks it declares a Query type.
func Validate(sdl string) error {
	doc, report := astparser.ParseGraphqlDocumentString(sdl)
	if report.HasErrors() {
		return fmt.Errorf("failed to parse GraphQL: %v", report)
	}

	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		if node.Kind != ast.NodeKindObjectTypeDefinition {
			continue
		}
		typeDef := doc.ObjectTypeDefinitions[node.Ref]
		if doc.Input.ByteSliceString(typeDef.Name) == "Query" {
			return nil
		}
	}

	return ErrNoQueryType
}
