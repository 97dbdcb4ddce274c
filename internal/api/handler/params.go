package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/response"
)

// MustParseID 解析路径中的自增 ID。
// 非法时写入 400 响应并返回 false，调用方应直接 return。
func MustParseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, response.CodeInvalidParams, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}
