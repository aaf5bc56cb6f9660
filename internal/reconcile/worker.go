// Package reconcile periodically recomputes the derived bootcamp averages
// and repairs any that drifted from their courses and reviews.
package reconcile

import (
	"context"
	"time"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/course"
	"devcamper/internal/domain/review"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

type Worker struct {
	bootcamps repositories.BootcampRepository
	uow       repositories.UnitOfWork
	pollEvery time.Duration
	batch     int
}

func NewWorker(bootcamps repositories.BootcampRepository, uow repositories.UnitOfWork, pollEvery time.Duration) *Worker {
	return &Worker{bootcamps: bootcamps, uow: uow, pollEvery: pollEvery, batch: 50}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("every", w.pollEvery).Msg("reconcile worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconcile worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

// tick walks every bootcamp in id order and returns how many were repaired.
func (w *Worker) tick(ctx context.Context) int {
	fixed := 0
	for page := 1; ; page++ {
		res, err := w.bootcamps.Find(ctx, query.Params{Page: query.Page{Page: page, Limit: w.batch}})
		if err != nil {
			log.Error().Err(err).Msg("reconcile worker: fetch bootcamps failed")
			return fixed
		}
		for _, b := range res.Items {
			changed, err := w.reconcileOne(ctx, b.ID)
			if err != nil {
				log.Error().Err(err).Str("bootcamp_id", b.ID).Msg("reconcile worker: bootcamp failed")
				continue
			}
			if changed {
				fixed++
			}
		}
		if len(res.Items) < w.batch {
			break
		}
	}
	if fixed > 0 {
		log.Info().Int("repaired", fixed).Msg("reconcile worker: averages repaired")
	}
	return fixed
}

func (w *Worker) reconcileOne(ctx context.Context, id string) (bool, error) {
	changed := false
	err := repositories.InTx(ctx, w.uow, func(tx repositories.Transaction) error {
		b, err := tx.BootcampRepository().FindByID(ctx, id)
		if err != nil {
			return err
		}
		tuitions, err := tx.CourseRepository().Tuitions(ctx, id)
		if err != nil {
			return err
		}
		ratings, err := tx.ReviewRepository().Ratings(ctx, id)
		if err != nil {
			return err
		}

		if cost := course.AverageCost(tuitions); !sameAverage(b.AverageCost, cost) {
			if err := tx.BootcampRepository().SetAverageCost(ctx, id, cost); err != nil {
				return err
			}
			changed = true
		}
		if rating := review.AverageRating(ratings); !sameAverage(b.AverageRating, rating) {
			if err := tx.BootcampRepository().SetAverageRating(ctx, id, rating); err != nil {
				return err
			}
			changed = true
		}
		if changed {
			logDrift(b, tuitions, ratings)
		}
		return nil
	})
	return changed, err
}

func sameAverage(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	const eps = 1e-9
	d := *a - *b
	return d < eps && d > -eps
}

func logDrift(b *bootcamp.Bootcamp, tuitions []float64, ratings []int) {
	log.Warn().
		Str("bootcamp_id", b.ID).
		Int("courses", len(tuitions)).
		Int("reviews", len(ratings)).
		Msg("reconcile worker: stale averages")
}
