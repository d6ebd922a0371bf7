package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"conflict-resolver/pkg/metrics"
	"conflict-resolver/pkg/storage"
)

// AuditRecord is one persisted resolution decision. Byte payloads are stored
// as text; invalid UTF-8 is replaced.
type AuditRecord struct {
	ID         string  `json:"id"`
	Base       *string `json:"base"`
	V1         string  `json:"v1"`
	V2         string  `json:"v2"`
	Result     string  `json:"result"`
	ResolvedAt string  `json:"resolvedAt"`
	// Relation is where the record is filed; it is not part of the document.
	Relation string `json:"-"`
}

type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// IDGenerator returns a unique record id for relation. It must be safe for
// concurrent use.
type IDGenerator func(relation string) string

// UUIDGenerator yields "<relation>-<uuid>".
func UUIDGenerator(relation string) string {
	return relation + "-" + uuid.NewString()
}

// SequenceGenerator yields "<relation>-<n>" from seq.
func SequenceGenerator(seq *storage.Sequencer) IDGenerator {
	return seq.Next
}

// StoreSink files each record under its relation, keyed by id.
type StoreSink struct {
	store storage.Storage
}

func NewStoreSink(store storage.Storage) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Record(ctx context.Context, rec AuditRecord) error {
	if err := s.store.Put(ctx, rec.Relation, rec.ID, rec); err != nil {
		return fmt.Errorf("audit %s/%s: %w", rec.Relation, rec.ID, err)
	}
	return nil
}

// ReadAuditTrail returns the records stored under relation, ordered by id.
func ReadAuditTrail(ctx context.Context, store storage.Storage, relation string) ([]AuditRecord, error) {
	docs, err := store.Find(ctx, relation, nil)
	if err != nil {
		return nil, err
	}
	out := make([]AuditRecord, 0, len(docs))
	for _, doc := range docs {
		var rec AuditRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode audit record: %w", err)
		}
		rec.Relation = relation
		out = append(out, rec)
	}
	return out, nil
}

type auditor struct {
	relation string
	opts     options
}

// record writes the decision to the sink. A failed write is logged and
// counted; the resolution itself has already succeeded.
func (a auditor) record(ctx context.Context, base, v1, v2, result []byte) {
	if a.opts.sink == nil {
		return
	}

	rec := AuditRecord{
		ID:         a.opts.ids(a.relation),
		V1:         text(v1),
		V2:         text(v2),
		Result:     text(result),
		ResolvedAt: a.opts.now().UTC().Format(time.RFC3339),
		Relation:   a.relation,
	}
	if base != nil {
		b := text(base)
		rec.Base = &b
	}

	if err := a.opts.sink.Record(ctx, rec); err != nil {
		metrics.RecordAuditFailure(a.relation)
		a.opts.logger.Warn("audit write failed",
			slog.String("relation", a.relation),
			slog.String("id", rec.ID),
			slog.String("error", err.Error()),
		)
	}
}

func text(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
