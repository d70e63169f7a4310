package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/statseg/internal/citation"
	"github.com/dgallion1/statseg/internal/hierarchy"
	"github.com/dgallion1/statseg/internal/render"
)

// segmentRequest is the body for the synchronous segmentation endpoints.
type segmentRequest struct {
	SectionID string `json:"section_id"`
	Text      string `json:"text"`
}

type verifyResponse struct {
	OK            bool     `json:"ok"`
	DiffIndex     int      `json:"diff_index"`
	Context       string   `json:"context,omitempty"`
	Unresolved    []string `json:"unresolved,omitempty"`
	DepthExceeded bool     `json:"depth_exceeded,omitempty"`
}

// handleSegment segments raw text in-request and returns the flat records
// without storing anything. Citation tokens are expanded back before the
// response so callers see original reference text.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSegmentRequest(w, r)
	if !ok {
		return
	}

	cited := citation.Tokenize(req.Text)
	res := hierarchy.Segment(req.SectionID, cited.Text)
	vr := hierarchy.Verify(res.SectionText, res.Records, cited.Text, s.cfg.MaxExpandDepth)

	records := make([]hierarchy.Subunit, len(res.Records))
	for i, rec := range res.Records {
		rec.Text = citation.Expand(rec.Text, cited.Refs)
		records[i] = rec
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"section_id":   req.SectionID,
		"section_text": citation.Expand(res.SectionText, cited.Refs),
		"subunits":     records,
		"verify": verifyResponse{
			OK:            vr.OK,
			DiffIndex:     vr.DiffIndex,
			Context:       vr.Context,
			Unresolved:    vr.Unresolved,
			DepthExceeded: vr.DepthExceeded,
		},
	})
}

// handleSegmentPreview returns the segmentation as an HTML outline.
func (s *Server) handleSegmentPreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSegmentRequest(w, r)
	if !ok {
		return
	}

	cited := citation.Tokenize(req.Text)
	res := hierarchy.Segment(req.SectionID, cited.Text)
	for i := range res.Records {
		res.Records[i].Text = citation.Expand(res.Records[i].Text, cited.Refs)
	}

	html, err := render.HTML(req.SectionID, res)
	if err != nil {
		s.log.Error("preview render failed", "error", err)
		jsonError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) decodeSegmentRequest(w http.ResponseWriter, r *http.Request) (segmentRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}
