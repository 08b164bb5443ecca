package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

type jobKind int

const (
	jobVerification jobKind = iota
	jobResetOTP
)

type job struct {
	kind   jobKind
	to     string
	secret string
}

// Queue is an asynchronous mail queue. Enqueue is non-blocking; a single
// worker goroutine drains the queue and paces SMTP sends so a burst of
// registrations cannot flood the relay.
type Queue struct {
	jobs    chan job
	service *Service
	pacer   *rate.Limiter
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewQueue creates a mail queue in front of the given SMTP service.
func NewQueue(service *Service, size, sendsPerMinute int) *Queue {
	if size <= 0 {
		size = 256
	}
	if sendsPerMinute <= 0 {
		sendsPerMinute = 60
	}
	return &Queue{
		jobs:    make(chan job, size),
		service: service,
		pacer:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(sendsPerMinute)), sendsPerMinute),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	go q.worker(ctx)
}

// Close stops the worker. Jobs still queued are dropped; delivery is
// best-effort by design.
func (q *Queue) Close() {
	if q.cancel != nil {
		q.cancel()
		<-q.done
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-q.jobs:
			if err := q.pacer.Wait(ctx); err != nil {
				return
			}
			var err error
			switch j.kind {
			case jobVerification:
				err = q.service.deliverVerification(j.to, j.secret)
			case jobResetOTP:
				err = q.service.deliverResetOTP(j.to, j.secret)
			}
			if err != nil {
				log.Printf("mail delivery failed for %s: %v", j.to, err)
			}
		}
	}
}

func (q *Queue) enqueue(j job) error {
	select {
	case q.jobs <- j:
		return nil
	default:
		return fmt.Errorf("mail queue full")
	}
}

// SendVerificationEmail queues a verification link for delivery.
func (q *Queue) SendVerificationEmail(to, token string) error {
	return q.enqueue(job{kind: jobVerification, to: to, secret: token})
}

// SendPasswordResetOTP queues a reset code for delivery.
func (q *Queue) SendPasswordResetOTP(to, otp string) error {
	return q.enqueue(job{kind: jobResetOTP, to: to, secret: otp})
}
