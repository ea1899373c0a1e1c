package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/catrec/core"
	"github.com/rushteam/catrec/service"
)

// Handler 持有推荐服务。
type Handler struct {
	svc *service.Recommender
}

func NewHandler(svc *service.Recommender) *Handler {
	return &Handler{svc: svc}
}

// HealthResponse 是 /healthz 的响应。
type HealthResponse struct {
	Status         string    `json:"status"`
	Users          int       `json:"users"`
	SimilaritySize int       `json:"similarity_size"`
	LoadedAt       time.Time `json:"loaded_at"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	snap := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Users:          snap.Users.Len(),
		SimilaritySize: snap.Similarity.Len(),
		LoadedAt:       snap.LoadedAt,
	})
}

// UserListResponse 是 /v1/users 的响应：相似度矩阵中可查询的 User_ID。
type UserListResponse struct {
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Users  []string `json:"users"`
}

const maxListLimit = 1000

// ListUsers 分页列出可查询的用户（?offset=&limit=，limit 默认 100）。
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "offset must be a non-negative integer")
		return
	}
	limit, err := intParam(r, "limit", 100)
	if err != nil || limit <= 0 || limit > maxListLimit {
		writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "limit must be within [1, 1000]")
		return
	}

	ids := h.svc.Snapshot().Similarity.Labels()
	resp := UserListResponse{Total: len(ids), Offset: offset, Users: []string{}}
	if offset < len(ids) {
		end := min(offset+limit, len(ids))
		resp.Users = ids[offset:end]
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUser 返回用户画像；用户不在用户表中时 404。
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	u, ok := h.svc.Snapshot().Users.Get(userID)
	if !ok {
		writeError(w, http.StatusNotFound, core.ErrorCodeNotFound, "user "+strconv.Quote(userID)+" not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetRecommendations 返回推荐结果（?k=邻居数&n=类别数）。
// 未知用户返回 200 与 found=false 的空结果。
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "k must be an integer")
		return
	}
	n, err := intParam(r, "n", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, "n must be an integer")
		return
	}

	rec, err := h.svc.Recommend(r.Context(), service.Query{
		UserID:         chi.URLParam(r, "userID"),
		TopKNeighbors:  k,
		TopNCategories: n,
	})
	if err != nil {
		if core.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, core.ErrorCodeInvalidInput, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, core.ErrorCodeInternalError, "recommendation failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
