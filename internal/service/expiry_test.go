package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabbaghsami/gramps/internal/service"
)

var _ = Describe("ExpiryService", func() {
	var (
		ctx          context.Context
		msgStore     *mockMessageStore
		sessionStore *mockSessionStore
		now          time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		msgStore = &mockMessageStore{}
		sessionStore = &mockSessionStore{}
		now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	})

	It("sweeps in batches until a short batch", func() {
		remaining := int64(25)
		var limits []int
		msgStore.deleteExpiredFn = func(_ context.Context, at time.Time, limit int) (int64, error) {
			Expect(at).To(Equal(now))
			limits = append(limits, limit)
			n := min(remaining, int64(limit))
			remaining -= n
			return n, nil
		}

		svc := service.NewExpiryService(msgStore, sessionStore, func() time.Time { return now }, 10)
		total, err := svc.Sweep(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(25)))
		Expect(limits).To(Equal([]int{10, 10, 10}))
	})

	It("uses the default batch size when none is configured", func() {
		var limit int
		msgStore.deleteExpiredFn = func(_ context.Context, _ time.Time, l int) (int64, error) {
			limit = l
			return 0, nil
		}

		svc := service.NewExpiryService(msgStore, sessionStore, nil, 0)
		_, err := svc.Sweep(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(limit).To(Equal(service.DefaultSweepBatchSize))
	})

	It("returns the partial count on failure", func() {
		calls := 0
		msgStore.deleteExpiredFn = func(_ context.Context, _ time.Time, limit int) (int64, error) {
			calls++
			if calls == 1 {
				return int64(limit), nil
			}
			return 0, errors.New("connection refused")
		}

		svc := service.NewExpiryService(msgStore, sessionStore, func() time.Time { return now }, 5)
		total, err := svc.Sweep(ctx)
		Expect(err).To(HaveOccurred())
		Expect(total).To(Equal(int64(5)))
	})

	It("also drops expired sessions, tolerating failures", func() {
		var sessionsAt time.Time
		sessionStore.deleteExpiredFn = func(_ context.Context, at time.Time) (int64, error) {
			sessionsAt = at
			return 0, errors.New("timeout")
		}

		svc := service.NewExpiryService(msgStore, sessionStore, func() time.Time { return now }, 5)
		_, err := svc.Sweep(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sessionsAt).To(Equal(now))
	})
})
