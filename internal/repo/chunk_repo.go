package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/SujJR/fundchat/internal/model"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
)

const chunkColumns = "id, doc_id, fund_id, file_name, file_type, chunk_index, total_chunks, content_type, page_number, content"

// ChunkRepo stores chunk text alongside its embedding and serves
// cosine similarity search over the fund's chunks.
type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// AddBatch writes all chunks of one document in a single transaction,
// so a failed ingest never leaves a partially indexed document behind.
func (r *ChunkRepo) AddBatch(ctx context.Context, chunks []model.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks with %d embeddings", appErr.ErrIndexWrite, len(chunks), len(embeddings))
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrIndexWrite, err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO chunks (id, doc_id, fund_id, file_name, file_type, chunk_index, total_chunks, content_type, page_number, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrIndexWrite, err)
	}
	defer stmt.Close()
	for i, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocID, chunk.FundID, chunk.FileName, chunk.FileType,
			chunk.ChunkIndex, chunk.TotalChunks, string(chunk.ContentType), chunk.PageNumber,
			chunk.Content, pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("%w: chunk %s: %v", appErr.ErrIndexWrite, chunk.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrIndexWrite, err)
	}
	return nil
}

// Search returns the k nearest chunks by cosine distance, restricted
// to the fund and, when given, to a document id allowlist.
func (r *ChunkRepo) Search(ctx context.Context, embedding []float32, k int, filter model.SearchFilter) ([]model.Chunk, error) {
	args := []interface{}{filter.FundID}
	cond := "fund_id = $1"
	if len(filter.DocIDs) > 0 {
		args = append(args, pq.Array(filter.DocIDs))
		cond += fmt.Sprintf(" AND doc_id = ANY($%d)", len(args))
	}
	args = append(args, pgvector.NewVector(embedding))
	orderArg := len(args)
	args = append(args, k)
	query := fmt.Sprintf(
		"SELECT %s FROM chunks WHERE %s ORDER BY embedding <=> $%d LIMIT $%d",
		chunkColumns, cond, orderArg, len(args),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (r *ChunkRepo) CountByFund(ctx context.Context, fundID string) (int, error) {
	const query = `SELECT COUNT(*) FROM chunks WHERE fund_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, fundID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChunkRepo) DeleteByDoc(ctx context.Context, docID string) (int64, error) {
	const query = `DELETE FROM chunks WHERE doc_id = $1`
	result, err := r.db.ExecContext(ctx, query, docID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ChunkRepo) DeleteByFund(ctx context.Context, fundID string) (int64, error) {
	const query = `DELETE FROM chunks WHERE fund_id = $1`
	result, err := r.db.ExecContext(ctx, query, fundID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanChunks(rows *sql.Rows) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for rows.Next() {
		var chunk model.Chunk
		var contentType string
		err := rows.Scan(&chunk.ID, &chunk.DocID, &chunk.FundID, &chunk.FileName, &chunk.FileType,
			&chunk.ChunkIndex, &chunk.TotalChunks, &contentType, &chunk.PageNumber, &chunk.Content)
		if err != nil {
			return nil, err
		}
		chunk.ContentType = model.ContentType(contentType)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}
