package swagcall

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// invoke runs one call end to end: synthesize, then either short-circuit a
// validation failure or hand the request to the transport. Blocking calls
// (nil cb) return the completed transaction; non-blocking calls return nil
// immediately and deliver the transaction through the scheduler.
func (c *Client) invoke(ctx context.Context, op *Operation, args Args, cb Callback) *Transaction {
	base := c.BaseURL()

	built, fail := synthesize(base, op, args)
	if fail != nil {
		tx := newValidationTransaction(op.Method, fail)
		c.logger.Debug("validation failed",
			zap.String("operation", op.Name),
			zap.String("transaction_id", tx.ID),
			zap.Strings("errors", fail.Errors))
		if cb == nil {
			return tx
		}
		c.sched.post(func() { cb(tx) })
		return nil
	}

	req, err := built.httpRequest(ctx)
	if err != nil {
		// The URL or method was unbuildable; surface it as a transport-level
		// transaction error rather than a panic or a distinct channel.
		tx := &Transaction{ID: uuid.NewString(), Method: op.Method, URL: built.url.String(), Err: err}
		if cb == nil {
			return tx
		}
		c.sched.post(func() { cb(tx) })
		return nil
	}

	if cb == nil {
		return c.execute(req, op)
	}
	go func() {
		tx := c.execute(req, op)
		c.sched.post(func() { cb(tx) })
	}()
	return nil
}

// execute sends one request and wraps the outcome.
func (c *Client) execute(req *http.Request, op *Operation) *Transaction {
	c.logger.Debug("dispatching",
		zap.String("operation", op.Name),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()))
	resp, err := c.transport.Do(req)
	tx := newHTTPTransaction(req, resp, err)
	c.logger.Debug("completed",
		zap.String("operation", op.Name),
		zap.String("transaction_id", tx.ID),
		zap.Int("status", tx.StatusCode),
		zap.Error(tx.Err))
	return tx
}
