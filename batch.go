package feishuextractor

import (
	"context"
	"fmt"
)

type convertFunc func(ctx context.Context, task Task) (string, error)

// runBatch processes tasks strictly in order. Progress is reported before
// the first task and after every task, whatever its outcome.
func runBatch(ctx context.Context, tasks []Task, convert convertFunc, opts *Options) (*Result, error) {
	res := &Result{Total: len(tasks)}
	opts.progress(res)

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if !opts.shouldHandle(ctx, task) {
			res.Skipped++
			opts.progress(res)
			continue
		}

		opts.logInfo("[%d/%d] Converting %s (%s)...", i+1, len(tasks), task.Name, task.ID)
		markdown, err := safeConvert(ctx, convert, task)
		if err != nil {
			res.Errors++
			opts.logError("Converting %s failed: %v", task.ID, err)
			opts.progress(res)
			continue
		}

		res.Done++
		res.Documents = append(res.Documents, Document{Task: task, Markdown: markdown})
		opts.progress(res)
		opts.finish(ctx, task, markdown)
	}

	return res, nil
}

// safeConvert turns a panic inside one document's pipeline into an error.
func safeConvert(ctx context.Context, convert convertFunc, task Task) (markdown string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return convert(ctx, task)
}

func (o *Options) progress(res *Result) {
	if o.OnProgress != nil {
		o.OnProgress(res.Done, res.Errors, res.Total)
	}
}

func (o *Options) shouldHandle(ctx context.Context, task Task) bool {
	if o.ShouldHandle == nil {
		return true
	}
	ok, err := o.ShouldHandle(ctx, task.URL)
	if err != nil {
		o.logWarn("Skipping %s: %v", task.URL, err)
		return false
	}
	if !ok {
		o.logInfo("Skipping %s", task.URL)
	}
	return ok
}

func (o *Options) finish(ctx context.Context, task Task, markdown string) {
	if o.OnDocument == nil {
		return
	}
	if err := o.OnDocument(ctx, task, markdown); err != nil {
		o.logWarn("Handling document %s failed: %v", task.ID, err)
	}
}
