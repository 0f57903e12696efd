package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/olivere/elastic/v7"
)

const DefaultESTimeout = 30 * time.Second

type AuditRepo interface {
	BulkIndex(index string, docs []interface{}) error
}

type auditRepo struct {
	elastic *elastic.Client
}

func NewAuditRepo(elastic *elastic.Client) AuditRepo {
	return &auditRepo{elastic: elastic}
}

func (r *auditRepo) BulkIndex(index string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultESTimeout)
	defer cancel()

	bulk := r.elastic.Bulk()
	for _, doc := range docs {
		bulk.Add(elastic.NewBulkIndexRequest().Index(index).Doc(doc))
	}

	resp, err := bulk.Do(ctx)
	if err != nil {
		return err
	}

	if resp.Errors {
		failed := resp.Failed()
		if len(failed) > 0 && failed[0].Error != nil {
			return fmt.Errorf("bulk index %s: %d failed, first: %s", index, len(failed), failed[0].Error.Reason)
		}
		return fmt.Errorf("bulk index %s: %d failed", index, len(failed))
	}

	return nil
}

// AuditIndexName returns the daily audit index for t.
func AuditIndexName(t time.Time) string {
	return fmt.Sprintf("%s-%s", model.AuditIndex, t.Format("2006.01.02"))
}
