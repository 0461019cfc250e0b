package api

import (
	"encoding/json"
	"io"
	"net/http"

	"place-map/internal/entity"
	"place-map/internal/repository"
)

const maxRequestBody = 1 << 16

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wire.MapRepo.Snapshot())
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wire.Map.Places())
}

// clickResponse：标记点击结果；Place 为空表示该坐标的标记未对应到地点
type clickResponse struct {
	Place      *entity.Place          `json:"place"`
	InfoWindow *repository.InfoWindow `json:"infoWindow,omitempty"`
}

// handleMarkerClick：浏览器回传标记点击，由服务端解析地点并更新信息窗
// 约束：坐标处无标记返回 404；坐标需与标记完全相等
func (s *Server) handleMarkerClick(w http.ResponseWriter, r *http.Request) {
	var loc entity.Location
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid location")
		return
	}
	s.clickMu.Lock()
	ok := s.wire.MapRepo.Click(loc)
	resp := clickResponse{Place: s.wire.Selected(), InfoWindow: s.wire.MapRepo.Snapshot().InfoWindow}
	s.clickMu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no marker at location")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFitBounds(w http.ResponseWriter, r *http.Request) {
	s.wire.Map.FitBounds()
	writeJSON(w, http.StatusOK, s.wire.MapRepo.Snapshot().Bounds)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.wire.Map.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleI18n(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"language": s.wire.Localizer.Language(),
		"messages": s.wire.Localizer.Messages(),
	})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.nav.snapshot())
}

// navigationRequest：导航栏按钮设置；Side 为 left 或 right
type navigationRequest struct {
	Side string `json:"side"`
	Item any    `json:"item"`
}

func (s *Server) handleNavigationPost(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid navigation request")
		return
	}
	if !s.nav.post(req.Side, req.Item) {
		writeError(w, http.StatusBadRequest, "side must be left or right")
		return
	}
	writeJSON(w, http.StatusOK, s.nav.snapshot())
}
