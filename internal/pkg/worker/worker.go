package worker

import (
	"context"
	"sync"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"
	"github.com/luxestudio-live/coupon-bazaar/pkg/metrics"

	"go.uber.org/zap"
)

// Notifier 告警投递通道
type Notifier interface {
	NotifyOperator(title, body string, ext map[string]string) error
}

// Alert 需要人工处理的运营事件 (金额不符、库存不足)
type Alert struct {
	Kind      string
	PaymentID string
	Title     string
	Body      string
	Fields    map[string]string
	Retry     int // 重试次数
}

type AlertPool struct {
	TaskQueue  chan Alert
	RetryQueue chan Alert // 重试队列
	Notifier   Notifier
	WorkerNum  int
	MaxRetry   int // 最大重试次数
	RetryDelay time.Duration
	Metrics    *metrics.MetricsCollector

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewAlertPool notifier 为 nil 时只写日志
func NewAlertPool(notifier Notifier, workerNum int, bufferSize int) *AlertPool {
	return &AlertPool{
		TaskQueue:  make(chan Alert, bufferSize),
		RetryQueue: make(chan Alert, bufferSize/2+1),
		Notifier:   notifier,
		WorkerNum:  workerNum,
		MaxRetry:   3,
		RetryDelay: time.Second,
	}
}

func (p *AlertPool) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker(ctx)
	logger.Log.Info("alert worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止并等待所有协程退出，队列里剩余的告警记入死信日志
func (p *AlertPool) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.wg.Wait()

	for {
		select {
		case task := <-p.TaskQueue:
			p.logFailedTask(task, context.Canceled)
		case task := <-p.RetryQueue:
			p.logFailedTask(task, context.Canceled)
		default:
			return
		}
	}
}

func (p *AlertPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.TaskQueue:
			p.handle(id, task)
		}
	}
}

func (p *AlertPool) handle(id int, task Alert) {
	err := p.processTask(task)
	if err == nil {
		p.record(task.Kind, true)
		return
	}

	logger.Log.Warn("alert delivery failed",
		zap.Int("worker", id),
		zap.String("kind", task.Kind),
		zap.String("payment_id", task.PaymentID),
		zap.Int("attempt", task.Retry+1),
		zap.Error(err))

	if task.Retry >= p.MaxRetry {
		p.logFailedTask(task, err)
		return
	}

	task.Retry++
	select {
	case p.RetryQueue <- task:
	default:
		p.logFailedTask(task, err)
	}
}

func (p *AlertPool) retryWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.RetryQueue:
			// 按次数线性退避
			select {
			case <-ctx.Done():
				p.logFailedTask(task, ctx.Err())
				return
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			}

			select {
			case p.TaskQueue <- task:
			default:
				p.logFailedTask(task, nil)
			}
		}
	}
}

func (p *AlertPool) processTask(task Alert) error {
	if p.Notifier == nil {
		return nil
	}
	return p.Notifier.NotifyOperator(task.Title, task.Body, task.Fields)
}

func (p *AlertPool) logFailedTask(task Alert, err error) {
	p.record(task.Kind, false)
	logger.Log.Error("[DeadLetter] operator alert dropped",
		zap.String("kind", task.Kind),
		zap.String("payment_id", task.PaymentID),
		zap.String("title", task.Title),
		zap.String("body", task.Body),
		zap.Any("fields", task.Fields),
		zap.Error(err))
}

func (p *AlertPool) record(kind string, delivered bool) {
	if p.Metrics != nil {
		p.Metrics.RecordAlert(kind, delivered)
	}
}

// AddTask 入队，不阻塞调用方
func (p *AlertPool) AddTask(task Alert) {
	logger.Log.Warn("operator alert raised",
		zap.String("kind", task.Kind),
		zap.String("payment_id", task.PaymentID),
		zap.String("title", task.Title))

	select {
	case p.TaskQueue <- task:
	default:
		p.logFailedTask(task, nil)
	}
}
