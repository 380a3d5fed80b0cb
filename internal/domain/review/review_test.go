package review

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReview(t *testing.T) *Review {
	t.Helper()
	r, err := NewReview(uuid.New(), uuid.New(), 4, "Great hoodie",
		"The embroidery came out sharp and the fabric is heavy.")
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestNewReview(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("valid review", func(t *testing.T) {
		r, err := NewReview(userID, productID, 5, "Love it",
			"Exactly what I ordered, arrived in four days.")

		require.NoError(t, err)
		assert.Equal(t, userID, r.GetUserID())
		assert.Equal(t, productID, r.ProductID)
		assert.Equal(t, ReviewStatusPending, r.Status)
		assert.Equal(t, 0, r.HelpfulVotes)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "ReviewCreated", events[0].EventType())
	})

	t.Run("title is optional", func(t *testing.T) {
		_, err := NewReview(userID, productID, 3, "",
			"Decent quality but the print faded after a few washes.")

		assert.NoError(t, err)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := NewReview(userID, productID, rating, "",
				"A comment long enough to pass validation here.")
			require.Error(t, err, "rating %d", rating)
			assert.Contains(t, err.Error(), "between 1 and 5")
		}
		for rating := MinRating; rating <= MaxRating; rating++ {
			_, err := NewReview(userID, productID, rating, "",
				"A comment long enough to pass validation here.")
			assert.NoError(t, err, "rating %d", rating)
		}
	})

	t.Run("comment too short", func(t *testing.T) {
		_, err := NewReview(userID, productID, 4, "", "meh")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 10 characters")
	})

	t.Run("comment too long", func(t *testing.T) {
		_, err := NewReview(userID, productID, 4, "", strings.Repeat("a", MaxCommentLength+1))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 1000")
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := NewReview(userID, productID, 4, strings.Repeat("t", MaxTitleLength+1),
			"A comment long enough to pass validation here.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100")
	})
}

func TestReviewImages(t *testing.T) {
	image := ReviewImage{
		FileName:    "front.jpg",
		ContentType: "image/jpeg",
		FileSize:    102400,
		StorageKey:  "reviews/abc/front.jpg",
	}

	t.Run("add images up to the limit", func(t *testing.T) {
		r := newTestReview(t)

		for i := 0; i < MaxImages; i++ {
			require.NoError(t, r.AddImage(image))
		}

		err := r.AddImage(image)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than 5 images")
	})

	t.Run("rejects oversized image", func(t *testing.T) {
		r := newTestReview(t)
		big := image
		big.FileSize = MaxImageFileSize + 1

		err := r.AddImage(big)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 5MB")
	})

	t.Run("cannot add images after moderation", func(t *testing.T) {
		r := newTestReview(t)
		require.NoError(t, r.Approve())

		err := r.AddImage(image)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "pending")
	})
}

func TestReviewModeration(t *testing.T) {
	t.Run("approve pending review", func(t *testing.T) {
		r := newTestReview(t)

		require.NoError(t, r.Approve())

		assert.True(t, r.IsApproved())
		assert.NotNil(t, r.ModeratedAt)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "ReviewModerated", events[0].EventType())
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		r := newTestReview(t)
		require.NoError(t, r.Approve())
		version := r.Version

		require.NoError(t, r.Approve())

		assert.Equal(t, version, r.Version)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		r := newTestReview(t)

		err := r.Reject("  ")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reason cannot be empty")
	})

	t.Run("reject pending review", func(t *testing.T) {
		r := newTestReview(t)

		require.NoError(t, r.Reject("contains profanity"))

		assert.Equal(t, ReviewStatusRejected, r.Status)
		assert.Equal(t, "contains profanity", r.RejectReason)
	})

	t.Run("rejected review cannot be approved", func(t *testing.T) {
		r := newTestReview(t)
		require.NoError(t, r.Reject("spam"))

		err := r.Approve()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must resubmit")
	})
}

func TestReviewHelpfulVotes(t *testing.T) {
	t.Run("votes accumulate on approved reviews", func(t *testing.T) {
		r := newTestReview(t)
		require.NoError(t, r.Approve())

		require.NoError(t, r.MarkHelpful())
		require.NoError(t, r.MarkHelpful())

		assert.Equal(t, 2, r.HelpfulVotes)
	})

	t.Run("pending reviews cannot be voted on", func(t *testing.T) {
		r := newTestReview(t)

		err := r.MarkHelpful()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only approved reviews")
	})
}

func TestReviewUpdate(t *testing.T) {
	t.Run("pending review can be edited", func(t *testing.T) {
		r := newTestReview(t)

		err := r.Update(2, "Changed my mind", "The seams started coming apart after a week.")

		require.NoError(t, err)
		assert.Equal(t, 2, r.Rating)
	})

	t.Run("approved review cannot be edited", func(t *testing.T) {
		r := newTestReview(t)
		require.NoError(t, r.Approve())

		err := r.Update(1, "", "Trying to edit an already published review.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only pending reviews")
	})
}

func TestEmptyRatingSummary(t *testing.T) {
	productID := uuid.New()

	summary := EmptyRatingSummary(productID)

	assert.Equal(t, productID, summary.ProductID)
	assert.Zero(t, summary.ReviewCount)
	assert.True(t, summary.AverageRating.IsZero())
	require.Len(t, summary.Distribution, 5)
	for star := MinRating; star <= MaxRating; star++ {
		assert.Zero(t, summary.Distribution[star])
	}
}
