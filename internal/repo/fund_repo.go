package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/SujJR/fundchat/internal/model"
	"github.com/SujJR/fundchat/internal/pkg/dbutil"
	appErr "github.com/SujJR/fundchat/internal/pkg/errors"
)

var fundFields = []string{"id", "fund_name", "summary", "document_count", "ctime", "mtime"}

type FundRepo struct {
	db *sql.DB
}

func NewFundRepo(db *sql.DB) *FundRepo {
	return &FundRepo{db: db}
}

func (r *FundRepo) Create(ctx context.Context, fund *model.Fund) error {
	data := map[string]interface{}{
		"id":             fund.ID,
		"fund_name":      fund.Name,
		"summary":        fund.Summary,
		"document_count": fund.DocumentCount,
		"ctime":          fund.Ctime,
		"mtime":          fund.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("funds", []map[string]interface{}{data})
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

func (r *FundRepo) GetByID(ctx context.Context, fundID string) (*model.Fund, error) {
	where := map[string]interface{}{"id": fundID}
	sqlStr, args, err := builder.BuildSelect("funds", where, fundFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	fund, err := scanFund(row)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fund, nil
}

func (r *FundRepo) List(ctx context.Context) ([]model.Fund, error) {
	where := map[string]interface{}{"_orderby": "ctime desc"}
	sqlStr, args, err := builder.BuildSelect("funds", where, fundFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var funds []model.Fund
	for rows.Next() {
		var fund model.Fund
		if err := rows.Scan(&fund.ID, &fund.Name, &fund.Summary, &fund.DocumentCount, &fund.Ctime, &fund.Mtime); err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}
	return funds, rows.Err()
}

func (r *FundRepo) UpdateSummary(ctx context.Context, fundID, summary string, mtime int64) error {
	where := map[string]interface{}{"id": fundID}
	update := map[string]interface{}{
		"summary": summary,
		"mtime":   mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("funds", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// IncrementDocumentCount must stay a single SQL increment so that
// concurrent document ingests never lose updates.
func (r *FundRepo) IncrementDocumentCount(ctx context.Context, fundID string, mtime int64) error {
	const query = `UPDATE funds SET document_count = document_count + 1, mtime = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, mtime, fundID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *FundRepo) SetDocumentCount(ctx context.Context, fundID string, count int, mtime int64) error {
	where := map[string]interface{}{"id": fundID}
	update := map[string]interface{}{
		"document_count": count,
		"mtime":          mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("funds", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *FundRepo) Delete(ctx context.Context, fundID string) error {
	where := map[string]interface{}{"id": fundID}
	sqlStr, args, err := builder.BuildDelete("funds", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ListStale returns funds whose summary is still the placeholder or
// whose stored document count drifted from the live count.
func (r *FundRepo) ListStale(ctx context.Context, limit int) ([]model.Fund, error) {
	const query = `
		SELECT f.id, f.fund_name, f.summary, f.document_count, f.ctime, f.mtime
		FROM funds f
		WHERE f.summary = $1
		   OR f.document_count <> (SELECT COUNT(*) FROM documents d WHERE d.fund_id = f.id)
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, model.EmptySummary, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var funds []model.Fund
	for rows.Next() {
		var fund model.Fund
		if err := rows.Scan(&fund.ID, &fund.Name, &fund.Summary, &fund.DocumentCount, &fund.Ctime, &fund.Mtime); err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}
	return funds, rows.Err()
}

func scanFund(row *sql.Row) (*model.Fund, error) {
	var fund model.Fund
	if err := row.Scan(&fund.ID, &fund.Name, &fund.Summary, &fund.DocumentCount, &fund.Ctime, &fund.Mtime); err != nil {
		return nil, err
	}
	return &fund, nil
}
