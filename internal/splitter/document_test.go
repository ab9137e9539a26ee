package splitter

import (
	"strings"
	"testing"

	assert2 "github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

const llamaSpec = `openapi: 3.0.0
info:
  title: DefiLlama API
  version: 1.0.0
tags:
  - name: TVL
    description: Total value locked
  - name: yields
    description: Pool yields
  - name: protocols
    description: Protocol listings
servers:
  - url: https://api.llama.fi
paths:
  /tvl/{chain}:
    get:
      tags:
        - TVL
      summary: Get TVL of a chain
      responses:
        '200':
          description: OK
  /protocols:
    get:
      tags:
        - protocols
      summary: List all protocols
      responses:
        '200':
          description: OK
  /pools:
    get:
      tags:
        - yields
      summary: List all pools
      responses:
        '200':
          description: OK
`

// decode parses rendered output into a generic map for assertions.
func decode(t *testing.T, contents []byte) map[string]any {
	t.Helper()
	var res map[string]any
	if err := yaml.Unmarshal(contents, &res); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return res
}

// pathKeys returns the path catalog's keys in document order.
func pathKeys(t *testing.T, contents []byte) []string {
	t.Helper()
	doc, err := NewDocumentFromContent(contents)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	paths := mappingValue(doc.root, keyPaths)
	if paths == nil {
		return nil
	}
	var res []string
	for i := 0; i+1 < len(paths.Content); i += 2 {
		res = append(res, paths.Content[i].Value)
	}
	return res
}

// tagNames returns the names of the tag declarations in document order.
func tagNames(t *testing.T, contents []byte) []string {
	t.Helper()
	doc, err := NewDocumentFromContent(contents)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tagsNode := mappingValue(doc.root, keyTags)
	if tagsNode == nil {
		return nil
	}
	var res []string
	for _, item := range tagsNode.Content {
		name, _ := tagName(item)
		res = append(res, name)
	}
	return res
}

func TestNewTagSet(t *testing.T) {
	assert := assert2.New(t)

	t.Run("skips-empty-names", func(t *testing.T) {
		set := NewTagSet("TVL", "", "  ", "yields")
		assert.Equal([]string{"TVL", "yields"}, set.Names())
	})

	t.Run("trims-whitespace", func(t *testing.T) {
		set := NewTagSet(" TVL ")
		assert.True(set["TVL"])
	})

	t.Run("case-sensitive", func(t *testing.T) {
		set := NewTagSet("TVL")
		assert.False(set["tvl"])
	})
}

func TestNewDocumentFromContent(t *testing.T) {
	assert := assert2.New(t)

	t.Run("happy-path", func(t *testing.T) {
		doc, err := NewDocumentFromContent([]byte(llamaSpec))
		assert.NoError(err)
		assert.NotNil(doc)
	})

	t.Run("invalid-yaml", func(t *testing.T) {
		_, err := NewDocumentFromContent([]byte("paths: [unbalanced"))
		assert.ErrorIs(err, ErrMalformedDocument)
	})

	t.Run("empty-document", func(t *testing.T) {
		_, err := NewDocumentFromContent([]byte(""))
		assert.ErrorIs(err, ErrMalformedDocument)
	})

	t.Run("not-a-mapping", func(t *testing.T) {
		_, err := NewDocumentFromContent([]byte("- just\n- a\n- list\n"))
		assert.ErrorIs(err, ErrMalformedDocument)
	})
}

func TestSplit(t *testing.T) {
	assert := assert2.New(t)

	doc, err := NewDocumentFromContent([]byte(llamaSpec))
	assert.NoError(err)

	t.Run("routes-paths-by-tag", func(t *testing.T) {
		res, err := doc.Split(NewTagSet("TVL", "yields"))
		assert.NoError(err)

		extracted, err := res.Extracted()
		assert.NoError(err)
		remaining, err := res.Remaining()
		assert.NoError(err)

		assert.Equal([]string{"/tvl/{chain}", "/pools"}, pathKeys(t, extracted))
		assert.Equal([]string{"/protocols"}, pathKeys(t, remaining))
		assert.Equal(2, res.ExtractedPaths)
		assert.Equal(1, res.RemainingPaths)
	})

	t.Run("routes-tag-declarations-in-order", func(t *testing.T) {
		res, err := doc.Split(NewTagSet("TVL", "yields"))
		assert.NoError(err)

		extracted, err := res.Extracted()
		assert.NoError(err)
		remaining, err := res.Remaining()
		assert.NoError(err)

		assert.Equal([]string{"TVL", "yields"}, tagNames(t, extracted))
		assert.Equal([]string{"protocols"}, tagNames(t, remaining))
	})

	t.Run("duplicates-header-into-both-outputs", func(t *testing.T) {
		res, err := doc.Split(NewTagSet("TVL", "yields"))
		assert.NoError(err)

		for _, render := range []func() ([]byte, error){res.Remaining, res.Extracted} {
			contents, err := render()
			assert.NoError(err)

			parsed := decode(t, contents)
			assert.Equal("3.0.0", parsed["openapi"])
			info, _ := parsed["info"].(map[string]any)
			assert.Equal("DefiLlama API", info["title"])
			assert.NotNil(parsed["servers"])
		}
	})

	t.Run("missing-paths-section", func(t *testing.T) {
		noPaths, err := NewDocumentFromContent([]byte("openapi: 3.0.0\ninfo:\n  title: t\n"))
		assert.NoError(err)

		_, err = noPaths.Split(NewTagSet("TVL"))
		assert.ErrorIs(err, ErrNoPathsInDocument)
	})

	t.Run("empty-tag-set-is-a-no-op", func(t *testing.T) {
		res, err := doc.Split(NewTagSet())
		assert.NoError(err)

		remaining, err := res.Remaining()
		assert.NoError(err)
		original, err := doc.Render()
		assert.NoError(err)
		assert.Equal(string(original), string(remaining))

		extracted, err := res.Extracted()
		assert.NoError(err)
		assert.Empty(pathKeys(t, extracted))
		assert.Empty(tagNames(t, extracted))
		assert.Equal(0, res.ExtractedPaths)
		assert.Equal(0, res.ExtractedTags)
	})

	t.Run("round-trip-reassembly", func(t *testing.T) {
		res, err := doc.Split(NewTagSet("TVL", "yields"))
		assert.NoError(err)

		remaining, err := res.Remaining()
		assert.NoError(err)
		extracted, err := res.Extracted()
		assert.NoError(err)

		// reinsert extracted paths at their original positions
		extractedKeys := pathKeys(t, extracted)
		remainingKeys := pathKeys(t, remaining)
		originalKeys := pathKeys(t, []byte(llamaSpec))

		var merged []string
		ei, ri := 0, 0
		for _, key := range originalKeys {
			if ei < len(extractedKeys) && extractedKeys[ei] == key {
				merged = append(merged, key)
				ei++
				continue
			}
			if ri < len(remainingKeys) && remainingKeys[ri] == key {
				merged = append(merged, key)
				ri++
			}
		}
		assert.Equal(originalKeys, merged)
		assert.Equal(len(originalKeys), len(extractedKeys)+len(remainingKeys))

		// entry contents are intact on both sides
		original := decode(t, []byte(llamaSpec))
		originalPaths, _ := original["paths"].(map[string]any)
		for _, out := range [][]byte{remaining, extracted} {
			parsed := decode(t, out)
			outPaths, _ := parsed["paths"].(map[string]any)
			for key, value := range outPaths {
				assert.Equal(originalPaths[key], value)
			}
		}
	})
}

func TestSplitEdgeCases(t *testing.T) {
	assert := assert2.New(t)

	t.Run("partially-tagged-entry-moves-wholesale", func(t *testing.T) {
		contents := `openapi: 3.0.0
tags:
  - name: yields
paths:
  /pools:
    get:
      tags:
        - pools
      responses:
        '200':
          description: OK
    post:
      tags:
        - yields
      responses:
        '201':
          description: Created
`
		doc, err := NewDocumentFromContent([]byte(contents))
		assert.NoError(err)

		res, err := doc.Split(NewTagSet("TVL", "yields"))
		assert.NoError(err)

		extracted, err := res.Extracted()
		assert.NoError(err)
		remaining, err := res.Remaining()
		assert.NoError(err)

		// the whole entry moves, including the untagged get operation
		assert.Equal([]string{"/pools"}, pathKeys(t, extracted))
		assert.Empty(pathKeys(t, remaining))
		assert.Contains(string(extracted), "'201'")
		assert.Contains(string(extracted), "'200'")
	})

	t.Run("deeper-tags-key-does-not-match", func(t *testing.T) {
		contents := `openapi: 3.0.0
tags: []
paths:
  /items:
    get:
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: object
                properties:
                  tags:
                    type: array
                    items:
                      type: string
                      example: TVL
`
		doc, err := NewDocumentFromContent([]byte(contents))
		assert.NoError(err)

		res, err := doc.Split(NewTagSet("TVL"))
		assert.NoError(err)

		remaining, err := res.Remaining()
		assert.NoError(err)
		assert.Equal([]string{"/items"}, pathKeys(t, remaining))
		assert.Equal(0, res.ExtractedPaths)
	})

	t.Run("nameless-tag-declaration-stays", func(t *testing.T) {
		contents := `openapi: 3.0.0
tags:
  - name: TVL
  - description: a declaration without a name
paths: {}
`
		doc, err := NewDocumentFromContent([]byte(contents))
		assert.NoError(err)

		res, err := doc.Split(NewTagSet("TVL"))
		assert.NoError(err)
		assert.Equal(1, res.ExtractedTags)
		assert.Equal(1, res.RemainingTags)

		remaining, err := res.Remaining()
		assert.NoError(err)
		assert.Contains(string(remaining), "a declaration without a name")
	})

	t.Run("document-without-tags-block", func(t *testing.T) {
		contents := `openapi: 3.0.0
paths:
  /tvl:
    get:
      tags:
        - TVL
      responses:
        '200':
          description: OK
`
		doc, err := NewDocumentFromContent([]byte(contents))
		assert.NoError(err)

		res, err := doc.Split(NewTagSet("TVL"))
		assert.NoError(err)

		extracted, err := res.Extracted()
		assert.NoError(err)
		assert.Equal([]string{"/tvl"}, pathKeys(t, extracted))
		assert.False(strings.Contains(string(extracted), "tags:") &&
			strings.Contains(string(extracted), "name:"))
	})
}
