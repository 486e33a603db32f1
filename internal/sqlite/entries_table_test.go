package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petrel-data/codelink/pkg/metadata"
	"github.com/petrel-data/codelink/pkg/types"
)

// testEntry builds a valid text entry for the given asset key and label.
func testEntry(assetKey, label string) *types.Entry {
	value, _ := metadata.MarshalValue(metadata.TextValue{Text: "hello"})
	return &types.Entry{
		AssetKey: assetKey,
		Label:    label,
		Kind:     string(metadata.KindText),
		Value:    value,
	}
}

func seedAsset(t *testing.T, b *Backend, key string) {
	t.Helper()
	assets := mustTable(t, b, types.TableAssets)
	if _, err := assets.Set("", &types.Asset{Key: key}); err != nil {
		t.Fatalf("seeding asset %s: %v", key, err)
	}
}

func TestEntriesTable_SetAndGet(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	id, err := entries.Set("", testEntry("orders", "definition"))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := entries.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	entry := got.(*types.Entry)
	if entry.AssetKey != "orders" || entry.Label != "definition" {
		t.Errorf("unexpected entry fields: %+v", entry)
	}
	if entry.Kind != string(metadata.KindText) {
		t.Errorf("expected kind text, got %s", entry.Kind)
	}

	value, err := entry.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	text, ok := value.(metadata.TextValue)
	if !ok {
		t.Fatalf("expected TextValue, got %T", value)
	}
	if text.Text != "hello" {
		t.Errorf("expected text hello, got %s", text.Text)
	}
}

func TestEntriesTable_SetRequiresAsset(t *testing.T) {
	b := attachedBackend(t)
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", testEntry("missing", "definition")); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing asset, got %v", err)
	}
}

func TestEntriesTable_SetValidation(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", "not an entry"); err != types.ErrInvalidData {
		t.Errorf("expected ErrInvalidData, got %v", err)
	}

	e := testEntry("orders", "definition")
	e.Kind = "bogus"
	if _, err := entries.Set("", e); err == nil {
		t.Error("expected error for unknown kind")
	}

	// Kind tag and envelope kind must agree.
	e = testEntry("orders", "definition")
	e.Kind = string(metadata.KindURL)
	if _, err := entries.Set("", e); err == nil {
		t.Error("expected error for kind mismatch")
	}
}

func TestEntriesTable_Delete(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	id, err := entries.Set("", testEntry("orders", "definition"))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := entries.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := entries.Get(id); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := entries.Delete(id); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestEntriesTable_FetchFilters(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	seedAsset(t, b, "revenue")
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", testEntry("orders", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := entries.Set("", testEntry("orders", "docs")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := entries.Set("", testEntry("revenue", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	byAsset, err := entries.Fetch(map[string]any{"asset_key": "orders"})
	if err != nil {
		t.Fatalf("Fetch by asset failed: %v", err)
	}
	if len(byAsset) != 2 {
		t.Errorf("expected 2 orders entries, got %d", len(byAsset))
	}

	byLabel, err := entries.Fetch(map[string]any{"asset_key": "orders", "label": "docs"})
	if err != nil {
		t.Fatalf("Fetch by label failed: %v", err)
	}
	if len(byLabel) != 1 || byLabel[0].(*types.Entry).Label != "docs" {
		t.Errorf("expected the docs entry, got %v", byLabel)
	}

	limited, err := entries.Fetch(map[string]any{"limit": 2})
	if err != nil {
		t.Fatalf("Fetch with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(limited))
	}

	if _, err := entries.Fetch(map[string]any{"limit": "two"}); err != types.ErrInvalidFilter {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestEntriesTable_UpdatePreservesCreatedAt(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", testEntry("orders", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	id, err := entries.Set("", testEntry("orders", "docs"))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := entries.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	createdAt := got.(*types.Entry).CreatedAt
	if createdAt.IsZero() {
		t.Fatal("expected non-zero created_at after create")
	}

	// Updates arrive with a zero CreatedAt when the caller builds a fresh
	// entry; the stored timestamp must survive.
	value, _ := metadata.MarshalValue(metadata.TextValue{Text: "revised"})
	update := &types.Entry{
		AssetKey: "orders",
		Label:    "docs",
		Kind:     string(metadata.KindText),
		Value:    value,
	}
	if _, err := entries.Set(id, update); err != nil {
		t.Fatalf("update Set failed: %v", err)
	}

	got, err = entries.Get(id)
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	updated := got.(*types.Entry)
	if !updated.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at changed on update: had %v, got %v", createdAt, updated.CreatedAt)
	}

	// Creation order must hold in fetches after the update.
	fetched, err := entries.Fetch(map[string]any{"asset_key": "orders"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetched) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(fetched))
	}
	if fetched[0].(*types.Entry).Label != "definition" || fetched[1].(*types.Entry).Label != "docs" {
		t.Errorf("expected [definition docs] order, got [%s %s]",
			fetched[0].(*types.Entry).Label, fetched[1].(*types.Entry).Label)
	}
}

func TestEntriesTable_FetchCacheInvalidation(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", testEntry("orders", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	filter := map[string]any{"asset_key": "orders"}
	first, err := entries.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}

	// A write for the same asset must not serve the stale cached slice.
	if _, err := entries.Set("", testEntry("orders", "docs")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	second, err := entries.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("expected 2 entries after write, got %d", len(second))
	}
}

func TestEntriesTable_FetchResultsDoNotAliasCache(t *testing.T) {
	b := attachedBackend(t)
	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)

	if _, err := entries.Set("", testEntry("orders", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	filter := map[string]any{"asset_key": "orders"}
	first, err := entries.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	first[0].(*types.Entry).Label = "mutated"

	// The second fetch is a cache hit; the mutation above must not leak
	// into it.
	second, err := entries.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := second[0].(*types.Entry).Label; got != "definition" {
		t.Errorf("cache served mutated entry: got label %s", got)
	}
	second[0].(*types.Entry).Label = "mutated again"

	third, err := entries.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := third[0].(*types.Entry).Label; got != "definition" {
		t.Errorf("cache hit returned shared pointer: got label %s", got)
	}
}

func TestEntriesTable_JSONLValueIsNestedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend()
	if err := b.Attach(testConfig(tmpDir)); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	seedAsset(t, b, "orders")
	entries := mustTable(t, b, types.TableEntries)
	if _, err := entries.Set("", testEntry("orders", "definition")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "entries.jsonl"))
	if err != nil {
		t.Fatalf("reading entries.jsonl: %v", err)
	}
	line := strings.TrimSpace(string(data))

	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("parsing entries.jsonl line: %v", err)
	}
	// The value envelope is an object, not an escaped string.
	if _, ok := rec["value"].(map[string]any); !ok {
		t.Errorf("expected value to be a JSON object, got %T", rec["value"])
	}
}
