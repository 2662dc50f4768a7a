package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/pkg/models"
)

// ProfileBuilder turns a user's action history into a UserProfile. On any
// downstream read error it recovers by returning a degenerate, zero-rating
// profile (PROFILE_DEGRADED) rather than propagating the failure.
type ProfileBuilder struct {
	tracking        TrackingService
	sequenceWindow  int
	sessionTimeout  time.Duration
	ratingThreshold float64
	logger          *logrus.Logger
	now             func() time.Time
}

func NewProfileBuilder(tracking TrackingService, sequenceWindow int, sessionTimeout time.Duration, ratingThreshold float64, logger *logrus.Logger) *ProfileBuilder {
	return &ProfileBuilder{
		tracking:        tracking,
		sequenceWindow:  sequenceWindow,
		sessionTimeout:  sessionTimeout,
		ratingThreshold: ratingThreshold,
		logger:          logger,
		now:             time.Now,
	}
}

func degenerateProfile(userID string) models.UserProfile {
	return models.UserProfile{
		UserID:        userID,
		RatingCount:   0,
		RecentActions: []models.Action{},
		Preferences: models.Preferences{
			Genres:    map[string]float64{},
			Directors: map[string]float64{},
			Actors:    map[string]float64{},
		},
	}
}

func (b *ProfileBuilder) Build(ctx context.Context, userID string) models.UserProfile {
	allRatings, err := b.tracking.GetUserActions(ctx, userID, 1000, string(models.ActionRate))
	if err != nil {
		b.logger.WithError(errProfileDegraded).WithFields(logrus.Fields{"user_id": userID, "cause": err}).Warn("profile builder degraded")
		return degenerateProfile(userID)
	}

	recent, err := b.tracking.GetRecentActions(ctx, userID)
	if err != nil {
		b.logger.WithError(errProfileDegraded).WithFields(logrus.Fields{"user_id": userID, "cause": err}).Warn("profile builder degraded")
		return degenerateProfile(userID)
	}

	allActions, err := b.tracking.GetUserActions(ctx, userID, 1000, "")
	if err != nil {
		b.logger.WithError(errProfileDegraded).WithFields(logrus.Fields{"user_id": userID, "cause": err}).Warn("profile builder degraded")
		return degenerateProfile(userID)
	}

	now := b.now()
	sessions := groupBySessions(allActions, b.sessionTimeout)

	sessionDepth := 0.0
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		sessionDepth = clamp(float64(len(last))/10, 0, 1)
	}

	engagement := 0.0
	if len(sessions) > 0 {
		engagement = float64(len(allActions)) / float64(len(sessions))
	}

	prefs := b.derivePreferences(allRatings)

	ratingValues := make([]float64, 0, len(allRatings))
	var earliest time.Time
	for _, a := range allRatings {
		ratingValues = append(ratingValues, a.Value)
		if earliest.IsZero() || a.Timestamp.Before(earliest) {
			earliest = a.Timestamp
		}
	}

	avgRating := 0.0
	if len(ratingValues) > 0 {
		sum := 0.0
		for _, v := range ratingValues {
			sum += v
		}
		avgRating = sum / float64(len(ratingValues))
	}

	timeActiveDays := 0
	if !earliest.IsZero() {
		timeActiveDays = int(now.Sub(earliest).Hours() / 24)
	}

	recentActions := recent
	if len(recentActions) > b.sequenceWindow {
		recentActions = recentActions[:b.sequenceWindow]
	}

	prefs.RatingThreshold = b.ratingThreshold

	return models.UserProfile{
		UserID:         userID,
		RatingCount:    len(allRatings),
		AvgRating:      avgRating,
		RatingVariance: ratingVariance(ratingValues),
		TimeActiveDays: timeActiveDays,
		Engagement:     engagement,
		SessionDepth:   sessionDepth,
		RecencyScore:   recencyScore(recentActions, now),
		RecentActions:  recentActions,
		Preferences:    prefs,
	}
}

// derivePreferences accumulates per-attribute signal sums/counts across all
// rating actions, then folds positively-signaled ratings into runtime/year
// preference windows.
func (b *ProfileBuilder) derivePreferences(ratings []models.Action) models.Preferences {
	genreSum, genreCount := map[string]float64{}, map[string]int{}
	directorSum, directorCount := map[string]float64{}, map[string]int{}
	actorSum, actorCount := map[string]float64{}, map[string]int{}

	var runtimeValues, runtimeWeights []float64
	var yearValues, yearWeights []float64

	for _, a := range ratings {
		signal := normalizeRatingSignal(a.Value)
		if a.Metadata == nil {
			continue
		}
		for _, g := range a.Metadata.Genres {
			g = normalizeAttr(g)
			genreSum[g] += signal
			genreCount[g]++
		}
		for _, d := range a.Metadata.Directors {
			d = normalizeAttr(d)
			directorSum[d] += signal
			directorCount[d]++
		}
		for _, act := range a.Metadata.Actors {
			act = normalizeAttr(act)
			actorSum[act] += signal
			actorCount[act]++
		}
		if signal > 0 {
			if a.Metadata.Runtime > 0 {
				runtimeValues = append(runtimeValues, float64(a.Metadata.Runtime))
				runtimeWeights = append(runtimeWeights, signal)
			}
			if a.Metadata.ReleaseYear > 0 {
				yearValues = append(yearValues, float64(a.Metadata.ReleaseYear))
				yearWeights = append(yearWeights, signal)
			}
		}
	}

	genres := foldSignal(genreSum, genreCount)
	directors := foldSignal(directorSum, directorCount)
	actors := foldSignal(actorSum, actorCount)

	runtimePref := models.RuntimePref{Min: 70, Max: 190, Ideal: 120}
	if len(runtimeValues) > 0 {
		ideal := weightedMean(runtimeValues, runtimeWeights)
		minV := ideal - 40
		if minV < 50 {
			minV = 50
		}
		runtimePref = models.RuntimePref{
			Min:   int(minV),
			Max:   int(ideal + 50),
			Ideal: int(ideal),
		}
	}

	currentYear := b.now().Year()
	yearPref := models.YearPref{Min: 1980, Max: currentYear}
	if len(yearValues) > 0 {
		ideal := weightedMean(yearValues, yearWeights)
		minV := ideal - 15
		if minV < 1950 {
			minV = 1950
		}
		maxV := ideal + 15
		if maxV > float64(currentYear) {
			maxV = float64(currentYear)
		}
		yearPref = models.YearPref{Min: int(minV), Max: int(maxV)}
	}

	return models.Preferences{
		Genres:      genres,
		Directors:   directors,
		Actors:      actors,
		RuntimePref: runtimePref,
		YearPref:    yearPref,
	}
}

func foldSignal(sum map[string]float64, count map[string]int) map[string]float64 {
	out := make(map[string]float64, len(sum))
	for k, s := range sum {
		c := count[k]
		if c < 1 {
			c = 1
		}
		out[k] = s / float64(c)
	}
	return out
}
