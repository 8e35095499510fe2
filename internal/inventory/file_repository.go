package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// FileRepository stores the catalog as a pretty-printed JSON array,
// rewriting the whole file on every save.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

type fileRecord struct {
	Name  *string      `json:"name"`
	Price *json.Number `json:"price"`
	Stock *json.Number `json:"stock"`
}

func (r *FileRepository) Save(_ context.Context, products []Product) error {
	records := make([]fileRecord, 0, len(products))
	for _, p := range products {
		name := p.Name
		price := json.Number(p.Price.String())
		stock := json.Number(p.Stock.String())
		records = append(records, fileRecord{Name: &name, Price: &price, Stock: &stock})
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

// Load reads the file back. A missing file is an empty catalog; anything
// malformed fails the whole load.
func (r *FileRepository) Load(_ context.Context) ([]Product, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []fileRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}

	products := make([]Product, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		p, err := rec.product()
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", r.path, i, err)
		}
		k := Key(p.Name)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%s: record %d: duplicate product %q", r.path, i, p.Name)
		}
		seen[k] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

func (rec fileRecord) product() (Product, error) {
	if rec.Name == nil || strings.TrimSpace(*rec.Name) == "" {
		return Product{}, errors.New("missing name")
	}
	price, err := parseAmount("price", rec.Price)
	if err != nil {
		return Product{}, err
	}
	stock, err := parseAmount("stock", rec.Stock)
	if err != nil {
		return Product{}, err
	}
	return Product{Name: strings.TrimSpace(*rec.Name), Price: price, Stock: stock}, nil
}

func parseAmount(field string, n *json.Number) (decimal.Decimal, error) {
	if n == nil {
		return decimal.Zero, fmt.Errorf("missing %s", field)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, n.String(), err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative %s %s", field, d)
	}
	return d, nil
}
