package json

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/diogo-cruz/aisafety"
)

// DefaultParts is the default number of split parts.
const DefaultParts = 5

// Path addresses a value inside a tree: string steps are object keys and
// int steps are array indices.
type Path []any

// LongestArray finds the longest array in v, searching depth first
// through object values and array elements. The first array found wins
// ties. Reports false when v contains no array.
func LongestArray(v any) (Path, []any, bool) {
	var (
		best     []any
		bestPath Path
		found    bool
	)
	var walk func(v any, path Path)
	walk = func(v any, path Path) {
		switch x := v.(type) {
		case []any:
			if !found || len(x) > len(best) {
				best, bestPath, found = x, append(Path(nil), path...), true
			}
			for i, el := range x {
				walk(el, append(path, i))
			}
		case *Object:
			for _, f := range x.fields {
				walk(f.Value, append(path, f.Key))
			}
		}
	}
	walk(v, nil)
	return bestPath, best, found
}

// Replace returns a copy of v with the value at path replaced. Only the
// containers along path are copied; v itself is not modified.
func Replace(v any, path Path, replacement any) any {
	if len(path) == 0 {
		return replacement
	}
	switch x := v.(type) {
	case *Object:
		key, _ := path[0].(string)
		child, ok := x.Get(key)
		if !ok {
			return v
		}
		clone := x.Clone()
		clone.Set(key, Replace(child, path[1:], replacement))
		return clone
	case []any:
		i, ok := path[0].(int)
		if !ok || i < 0 || i >= len(x) {
			return v
		}
		clone := append([]any(nil), x...)
		clone[i] = Replace(x[i], path[1:], replacement)
		return clone
	}
	return v
}

// Chunk is one part of a split document.
type Chunk struct {
	// Doc is the full document with the split array replaced.
	Doc any

	// Items is the number of array items in this chunk.
	Items int
}

// Split partitions the longest array in v into parts contiguous chunks
// of ceil(len/parts) items and returns one document per non-empty chunk,
// each identical to v except for the chunked array.
func Split(v any, parts int) ([]Chunk, error) {
	if parts <= 0 {
		return nil, aisafety.Errorf(aisafety.EINVALID, "parts must be positive")
	}
	path, arr, ok := LongestArray(v)
	if !ok {
		return nil, aisafety.Errorf(aisafety.EINVALID, "no array found in the document to split")
	}

	size := (len(arr) + parts - 1) / parts
	var chunks []Chunk
	for start := 0; start < len(arr) && len(chunks) < parts; start += size {
		end := min(start+size, len(arr))
		chunks = append(chunks, Chunk{
			Doc:   Replace(v, path, arr[start:end:end]),
			Items: end - start,
		})
	}
	return chunks, nil
}

// PartPath returns the path of part n (1-based) of the document at path:
// "<stem>_part<n>.json".
func PartPath(path string, n int) string {
	return fmt.Sprintf("%s_part%d.json", strings.TrimSuffix(path, filepath.Ext(path)), n)
}

// SplitFile splits the document at path into sibling part files and
// returns the paths written, in part order.
func SplitFile(path string, parts int) ([]string, []Chunk, error) {
	v, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := Split(v, parts)
	if err != nil {
		return nil, nil, err
	}

	written := make([]string, 0, len(chunks))
	for i, c := range chunks {
		partPath := PartPath(path, i+1)
		if err := WriteFile(partPath, c.Doc); err != nil {
			return written, chunks, fmt.Errorf("write %s: %w", partPath, err)
		}
		written = append(written, partPath)
	}
	return written, chunks, nil
}
