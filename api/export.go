package api

import (
	"encoding/csv"
	"fmt"
	"time"

	log "github.com/Sirupsen/logrus"
	"gopkg.in/gin-gonic/gin.v1"
	elastic "gopkg.in/olivere/elastic.v6"

	"github.com/pulseboard/listening-backend/consts"
	"github.com/pulseboard/listening-backend/dashboard"
)

var exportHeader = []string{
	"created_at",
	"source",
	"author",
	"content",
	"url",
	"sentiment",
	"emotion",
	"likes",
	"shares",
	"comments",
	"engagements",
	"followers",
	"country",
}

// ExportHandler streams the full filtered result set as a CSV
// download. Rows are written page by page off a scroll cursor, so the
// export never materializes in memory.
func ExportHandler(c *gin.Context) {
	var r WidgetRequest
	if c.Bind(&r) != nil {
		return
	}
	r.normalize()
	started := time.Now()
	engine, st := dataStores(c)
	ctx := c.Request.Context()

	dict, available, entities, err := topicLookups(ctx, st, r.TopicID)
	if err != nil {
		NewInternalError(err).Abort(c)
		return
	}

	window := r.resolveWindow(true, false)
	query := dashboard.ComposeQuery(r.toFilter(window, available, entities), dict)

	filename := fmt.Sprintf("mentions-%d-%s.csv", r.TopicID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// Headers are already out from here on, so failures can only be
	// logged and the download truncated.
	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		log.Errorf("ExportHandler: header: %s", err)
		return
	}

	err = engine.Scroll(ctx, query, consts.EXPORT_SCROLL_SIZE, func(hits []*elastic.SearchHit) error {
		for _, hit := range hits {
			raw, err := dashboard.UnmarshalHit(hit)
			if err != nil {
				log.Warnf("ExportHandler: %s", err)
				continue
			}
			if err := w.Write(exportRow(raw)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		log.Errorf("ExportHandler: scroll aborted: %s", err)
		return
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Errorf("ExportHandler: flush: %s", err)
		return
	}
	publishQueryEvent("export", r, started)
}

func exportRow(raw dashboard.RawPost) []string {
	card := dashboard.Normalize(raw)
	return []string{
		card.CreatedAt,
		card.Source,
		raw.UFullname,
		card.MessageText,
		raw.URL,
		card.PredictedSentiment,
		card.LLMEmotion,
		card.Likes,
		card.Shares,
		card.Comments,
		card.Engagements,
		card.Followers,
		raw.UCountry,
	}
}
