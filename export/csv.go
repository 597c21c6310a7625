package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/model"
)

// Header is the first CSV record.
var Header = []string{
	"vault", "edge_id", "relation", "edge_attrs",
	"from_id", "from_label", "from_attrs",
	"to_id", "to_label", "to_attrs",
}

var (
	// ErrInvalidHeader is returned when the first record does not equal Header.
	ErrInvalidHeader = errors.New("invalid csv header")

	// ErrMalformedRecord is returned for rows that cannot be turned into an edge.
	ErrMalformedRecord = errors.New("malformed csv record")
)

// WriteCSV writes every vault of s, in name order, one row per edge.
func WriteCSV(w io.Writer, s *vaultgraph.Store, optFns ...Option) error {
	opts := applyOptions(optFns)

	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, vault := range s.Vaults() {
		edges, err := s.Edges(vaultgraph.InVault(vault))
		if err != nil {
			return err
		}
		for _, e := range edges {
			from, to := e.Endpoints()
			row := []string{
				vault, e.ID(), e.Relation(), encodeAttrs(e.Attributes()),
				from.ID(), from.Label(), encodeAttrs(from.Attributes()),
				to.ID(), to.Label(), encodeAttrs(to.Attributes()),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV builds a store labeled name from rows written by WriteCSV.
// Rows with an empty vault column go to name. Every vault found in the input
// is created; name is the current vault of the result.
func ReadCSV(ctx context.Context, r io.Reader, name string, optFns ...Option) (*vaultgraph.Store, error) {
	opts := applyOptions(optFns)

	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidHeader)
		}
		return nil, err
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, strings.Join(header, string(opts.delimiter)))
	}

	var (
		order    []string
		byVault  = make(map[string][]*model.Edge)
		vertices = make(map[string]*model.Vertex)
	)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)

		vault := rec[0]
		if vault == "" {
			vault = name
		}

		e, err := edgeFromRecord(rec, vertices)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, line, err)
		}

		if _, ok := byVault[vault]; !ok {
			order = append(order, vault)
		}
		byVault[vault] = append(byVault[vault], e)
	}

	s := vaultgraph.New(name, opts.storeOptions...)
	for _, vault := range order {
		if vault != name {
			s.Insert(vault)
		}
	}
	// name is still empty here, so re-inserting it only makes it current again.
	s.Insert(name)

	for _, vault := range order {
		if err := s.AddEdges(ctx, byVault[vault], vaultgraph.InVault(vault)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func edgeFromRecord(rec []string, vertices map[string]*model.Vertex) (*model.Edge, error) {
	edgeAttrs, err := decodeAttrs(rec[3])
	if err != nil {
		return nil, fmt.Errorf("edge_attrs: %w", err)
	}
	from, err := vertex(rec[4], rec[5], rec[6], vertices)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := vertex(rec[7], rec[8], rec[9], vertices)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	id := rec[1]
	if id == "" {
		id = uuid.NewString()
	}
	return model.RestoreEdge(id, rec[2], from, to, model.RestoreAttributes(uuid.NewString(), edgeAttrs))
}

// vertex returns the vertex registered under id, creating it on first sight.
func vertex(id, label, attrs string, vertices map[string]*model.Vertex) (*model.Vertex, error) {
	if id == "" {
		return nil, errors.New("empty vertex id")
	}
	if v, ok := vertices[id]; ok {
		return v, nil
	}
	values, err := decodeAttrs(attrs)
	if err != nil {
		return nil, err
	}
	v := model.RestoreVertex(id, label, model.RestoreAttributes(uuid.NewString(), values))
	vertices[id] = v
	return v, nil
}

var attrEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, `=`, `\=`)

func encodeAttrs(a *model.Attributes) string {
	values := a.Map()

	parts := make([]string, 0, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		parts = append(parts, attrEscaper.Replace(k)+"="+attrEscaper.Replace(values[k]))
	}
	return strings.Join(parts, "|")
}

func decodeAttrs(s string) (map[string]string, error) {
	out := make(map[string]string)
	if s == "" {
		return out, nil
	}

	var (
		cur     strings.Builder
		key     string
		haveKey bool
	)
	flush := func() error {
		if !haveKey {
			return fmt.Errorf("attribute %q has no '='", cur.String())
		}
		out[key] = cur.String()
		cur.Reset()
		haveKey = false
		return nil
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 == len(s) {
				return nil, errors.New("dangling escape")
			}
			i++
			cur.WriteByte(s[i])
		case '=':
			if haveKey {
				return nil, fmt.Errorf("unescaped '=' in value of %q", key)
			}
			key = cur.String()
			cur.Reset()
			haveKey = true
		case '|':
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			cur.WriteByte(c)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
