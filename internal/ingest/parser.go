package ingest

import (
	"errors"
	"fmt"
	"gmi/internal/domain/content"
	"gopkg.in/yaml.v3"
	"regexp"
	"strings"
	"unicode"
)

var errFrontMatterShape = errors.New("front matter must be a mapping")

var (
	// 常规情况：闭合的 --- 之后还有正文
	reFrontMatter = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n(.*)$`)
	// 闭合的 --- 在文件末尾，后面没有换行
	reFrontMatterEOF = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---(.*)$`)
)

// SplitFrontMatter separates the leading --- block from the body. Documents
// without a well-formed block come back unchanged as body.
func SplitFrontMatter(src string) (frontMatter, body string) {
	trimmed := strings.TrimLeftFunc(src, unicode.IsSpace)

	if m := reFrontMatter.FindStringSubmatch(trimmed); m != nil {
		return m[1], m[2]
	}
	if m := reFrontMatterEOF.FindStringSubmatch(trimmed); m != nil {
		return m[1], m[2]
	}
	return "", src
}

// ParseFrontMatter decodes the block into a Frontmatter. Unknown keys land
// in Extra. An empty block yields the defaults.
func ParseFrontMatter(src string) (content.Frontmatter, error) {
	fm := content.DefaultFrontmatter()
	if strings.TrimSpace(src) == "" {
		return fm, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return content.Frontmatter{}, err
	}
	if len(doc.Content) == 0 {
		return fm, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return fm, nil
	}
	if root.Kind != yaml.MappingNode {
		return content.Frontmatter{}, fmt.Errorf("%w, got %s", errFrontMatterShape, nodeKindName(root.Kind))
	}

	if err := root.Decode(&fm); err != nil {
		return content.Frontmatter{}, err
	}
	fm.Extra = map[string]content.Value{}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if _, ok := content.KnownKeys[key]; ok {
			continue
		}
		fm.Extra[key] = valueFromNode(root.Content[i+1])
	}
	return fm, nil
}

func valueFromNode(n *yaml.Node) content.Value {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return content.Value{Kind: content.ValueNull, Tag: n.Tag}
		}
		return content.Value{Kind: content.ValueScalar, Tag: n.Tag, Scalar: n.Value}
	case yaml.SequenceNode:
		items := make([]content.Value, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, valueFromNode(c))
		}
		return content.Value{Kind: content.ValueSequence, Tag: n.Tag, Items: items}
	case yaml.MappingNode:
		fields := make(map[string]content.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			fields[n.Content[i].Value] = valueFromNode(n.Content[i+1])
		}
		return content.Value{Kind: content.ValueMapping, Tag: n.Tag, Fields: fields}
	default:
		return content.Value{Kind: content.ValueNull}
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
