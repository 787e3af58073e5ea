package handler

import (
	"StreamHub/internal/api/dto"
	"StreamHub/internal/pkg/response"
	"StreamHub/internal/pkg/util"
	"StreamHub/internal/service"

	"github.com/gin-gonic/gin"
)

type TrendingHandler struct {
	trendingSvc service.TrendingService
}

func NewTrendingHandler(trendingSvc service.TrendingService) *TrendingHandler {
	return &TrendingHandler{
		trendingSvc: trendingSvc,
	}
}

// GetTrending 获取热门榜单
func (h *TrendingHandler) GetTrending(c *gin.Context) {
	var query dto.TrendingQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	query.Normalize()
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.trendingSvc.GetTrending(c.Request.Context(), query.Period, query.Category, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Recompute 手动触发分区重算，同一分区正在计算时返回 409
func (h *TrendingHandler) Recompute(c *gin.Context) {
	var req dto.TrendingRecomputeReqDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	req.Normalize()
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.trendingSvc.RecomputeTrending(c.Request.Context(), req.Period, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
