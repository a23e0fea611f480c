package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

func TestRenderEvents(t *testing.T) {
	events := model.CollectionEvents{
		{Date: time.Date(2026, time.January, 23, 0, 0, 0, 0, time.UTC), Category: model.CategoryBlack, Icon: "mdi:trash-can"},
		{Date: time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC), Category: model.CategoryBlue, Icon: "mdi:file-document-outline"},
	}

	var buf bytes.Buffer
	RenderEvents(&buf, events)
	out := buf.String()

	for _, want := range []string{"2026-01-23", "2026-01-30", "Friday", "Non Recyclable Waste", "Paper and Cardboard"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}

	// Row order follows input order.
	if strings.Index(out, "2026-01-23") > strings.Index(out, "2026-01-30") {
		t.Error("rows out of order")
	}
}

func TestStyleCategory_Unknown(t *testing.T) {
	if got := StyleCategory(model.CategoryUnknown); got != "unknown" {
		t.Errorf("StyleCategory(unknown) = %q", got)
	}
}
