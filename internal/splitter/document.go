package splitter

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cubahno/specsplit/internal/files"
	"gopkg.in/yaml.v3"
)

const (
	keyTags  = "tags"
	keyPaths = "paths"
	keyName  = "name"
)

// TagSet is the set of tag names that routes tag declarations and path
// entries to the extracted document. Matching is exact and case-sensitive.
type TagSet map[string]bool

// NewTagSet creates a TagSet from tag names. Empty names are skipped.
func NewTagSet(names ...string) TagSet {
	res := make(TagSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res[name] = true
	}
	return res
}

// Names returns the sorted tag names.
func (s TagSet) Names() []string {
	res := make([]string, 0, len(s))
	for name := range s {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Document is an OpenAPI document held as an ordered YAML node tree.
// Key order, scalar styles and comments survive the round trip.
type Document struct {
	root *yaml.Node
}

// NewDocumentFromFile creates a new Document from a file path or URL.
func NewDocumentFromFile(filePath string) (*Document, error) {
	contents, err := files.ReadFileOrURL(filePath)
	if err != nil {
		return nil, err
	}
	return NewDocumentFromContent(contents)
}

// NewDocumentFromContent creates a new Document from YAML contents.
// The top level must be a mapping.
func NewDocumentFromContent(contents []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrMalformedDocument
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrMalformedDocument
	}

	return &Document{root: root}, nil
}

// Render renders the document back to YAML.
func (d *Document) Render() ([]byte, error) {
	return marshalNode(d.root)
}

// Split partitions the document into a remaining and an extracted document.
// Tag declarations and path entries matching the TagSet move to the
// extracted side; everything else stays. All other top-level content is
// shared by both results. Returns ErrNoPathsInDocument if the document has
// no paths section.
func (d *Document) Split(tags TagSet) (*Result, error) {
	if mappingValue(d.root, keyPaths) == nil {
		return nil, ErrNoPathsInDocument
	}

	res := &Result{
		remaining: shallowNode(d.root),
		extracted: shallowNode(d.root),
	}

	content := d.root.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i], content[i+1]

		switch {
		case key.Value == keyTags && value.Kind == yaml.SequenceNode:
			remTags, extTags := partitionTags(value, tags)
			appendPair(res.remaining, key, sequenceNode(value, remTags))
			appendPair(res.extracted, key, sequenceNode(value, extTags))
			res.RemainingTags = len(remTags)
			res.ExtractedTags = len(extTags)

		case key.Value == keyPaths && value.Kind == yaml.MappingNode:
			remPaths, extPaths := partitionPaths(value, tags)
			appendPair(res.remaining, key, mappingNode(value, remPaths))
			appendPair(res.extracted, key, mappingNode(value, extPaths))
			res.RemainingPaths = len(remPaths) / 2
			res.ExtractedPaths = len(extPaths) / 2

		default:
			appendPair(res.remaining, key, value)
			appendPair(res.extracted, key, value)
		}
	}

	return res, nil
}

// partitionTags routes each tag declaration wholesale by its name field.
// A declaration without a detectable name is kept in remaining rather than
// dropped.
func partitionTags(seq *yaml.Node, tags TagSet) (remaining, extracted []*yaml.Node) {
	for _, item := range seq.Content {
		name, ok := tagName(item)
		if !ok {
			slog.Warn("tag declaration without a name, keeping it", "line", item.Line)
			remaining = append(remaining, item)
			continue
		}

		if tags[name] {
			extracted = append(extracted, item)
		} else {
			remaining = append(remaining, item)
		}
	}
	return remaining, extracted
}

// partitionPaths routes whole path entries: an entry moves to extracted if
// any of its operations references a tag from the set. The returned slices
// are flattened key/value pairs in source order.
func partitionPaths(paths *yaml.Node, tags TagSet) (remaining, extracted []*yaml.Node) {
	content := paths.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i], content[i+1]
		if hasTagReference(value, tags) {
			extracted = append(extracted, key, value)
		} else {
			remaining = append(remaining, key, value)
		}
	}
	return remaining, extracted
}

// hasTagReference reports whether any operation of the path entry carries a
// tag from the set. Tag references live exactly one level below the path
// item (path -> method -> tags); deeper keys that happen to be named "tags"
// do not count.
func hasTagReference(pathItem *yaml.Node, tags TagSet) bool {
	if pathItem.Kind != yaml.MappingNode {
		return false
	}

	content := pathItem.Content
	for i := 0; i+1 < len(content); i += 2 {
		operation := content[i+1]
		if operation.Kind != yaml.MappingNode {
			continue
		}

		tagRefs := mappingValue(operation, keyTags)
		if tagRefs == nil || tagRefs.Kind != yaml.SequenceNode {
			continue
		}

		for _, ref := range tagRefs.Content {
			if tags[ref.Value] {
				return true
			}
		}
	}

	return false
}

// tagName extracts the name of a tag declaration.
func tagName(item *yaml.Node) (string, bool) {
	if item.Kind != yaml.MappingNode {
		return "", false
	}

	value := mappingValue(item, keyName)
	if value == nil || value.Kind != yaml.ScalarNode || value.Value == "" {
		return "", false
	}

	return value.Value, true
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// shallowNode copies a collection node without its content.
func shallowNode(src *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:        src.Kind,
		Style:       src.Style,
		Tag:         src.Tag,
		HeadComment: src.HeadComment,
		LineComment: src.LineComment,
		FootComment: src.FootComment,
	}
}

// sequenceNode rebuilds a sequence node with the given items, keeping the
// source node's presentation.
func sequenceNode(src *yaml.Node, items []*yaml.Node) *yaml.Node {
	node := shallowNode(src)
	node.Kind = yaml.SequenceNode
	node.Tag = "!!seq"
	node.Content = items
	return node
}

// mappingNode rebuilds a mapping node with the given key/value pairs,
// keeping the source node's presentation.
func mappingNode(src *yaml.Node, pairs []*yaml.Node) *yaml.Node {
	node := shallowNode(src)
	node.Kind = yaml.MappingNode
	node.Tag = "!!map"
	node.Content = pairs
	return node
}

// appendPair appends a key/value pair to a mapping node.
func appendPair(mapping *yaml.Node, key, value *yaml.Node) {
	mapping.Content = append(mapping.Content, key, value)
}

// Result holds the two documents produced by a split along with routing
// counts for diagnostics.
type Result struct {
	remaining *yaml.Node
	extracted *yaml.Node

	RemainingTags  int
	ExtractedTags  int
	RemainingPaths int
	ExtractedPaths int
}

// Remaining renders the remaining document.
func (r *Result) Remaining() ([]byte, error) {
	return marshalNode(r.remaining)
}

// Extracted renders the extracted document.
func (r *Result) Extracted() ([]byte, error) {
	return marshalNode(r.extracted)
}

func marshalNode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("%w: %v", ErrRenderingDocument, err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderingDocument, err)
	}

	return buf.Bytes(), nil
}
