package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

type addressRequest struct {
	FullName string `json:"fullName" binding:"max=120"`
	Phone    string `json:"phone" binding:"max=20"`
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state"`
	Pincode  string `json:"pincode" binding:"required,pincode"`
}

func (r *addressRequest) entity() entity.Address {
	return entity.Address{
		FullName: strings.TrimSpace(r.FullName),
		Phone:    strings.TrimSpace(r.Phone),
		Street:   strings.TrimSpace(r.Street),
		City:     strings.TrimSpace(r.City),
		State:    strings.TrimSpace(r.State),
		Pincode:  r.Pincode,
	}
}

// optional returns nil for a missing address so the saved one is used.
func (r *addressRequest) optional() *entity.Address {
	if r == nil {
		return nil
	}
	a := r.entity()
	return &a
}

// queryInt reads a positive integer query param, or 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

// splitList splits a comma separated field, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// formList accepts repeated form values or a single comma separated one.
func formList(c *gin.Context, key string) []string {
	vals := c.PostFormArray(key)
	if len(vals) == 1 {
		return splitList(vals[0])
	}
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// keepList reads the images a multipart update retains. A missing field
// yields nil, which keeps every existing image.
func keepList(c *gin.Context, key string) []string {
	vals, ok := c.GetPostFormArray(key)
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range vals {
		out = append(out, splitList(v)...)
	}
	return out
}
