package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/SujJR/fundchat/internal/model"
	"github.com/SujJR/fundchat/internal/pkg/dbutil"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
)

var documentFields = []string{"id", "fund_id", "file_name", "file_type", "size_bytes", "ctime"}

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"id":         doc.ID,
		"fund_id":    doc.FundID,
		"file_name":  doc.FileName,
		"file_type":  doc.FileType,
		"size_bytes": doc.SizeBytes,
		"ctime":      doc.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, docID string) (*model.Document, error) {
	where := map[string]interface{}{"id": docID}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var doc model.Document
	err = r.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&doc.ID, &doc.FundID, &doc.FileName, &doc.FileType, &doc.SizeBytes, &doc.Ctime)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) ListByFund(ctx context.Context, fundID string) ([]model.Document, error) {
	where := map[string]interface{}{
		"fund_id":  fundID,
		"_orderby": "ctime asc",
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.FundID, &doc.FileName, &doc.FileType, &doc.SizeBytes, &doc.Ctime); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) CountByFund(ctx context.Context, fundID string) (int, error) {
	const query = `SELECT COUNT(*) FROM documents WHERE fund_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, fundID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DocumentRepo) DeleteByFund(ctx context.Context, fundID string) (int64, error) {
	where := map[string]interface{}{"fund_id": fundID}
	sqlStr, args, err := builder.BuildDelete("documents", where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
