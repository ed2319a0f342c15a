package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ProfileID 兼容 JSON 字符串与数字两种形式，序列化时总是输出字符串。
type ProfileID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ProfileID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProfileID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("profile id must be a string or number: %w", err)
	}
	*id = ProfileID(n.String())
	return nil
}

// NewProfileID 以毫秒时间戳生成 id。
func NewProfileID(now time.Time) ProfileID {
	return ProfileID(strconv.FormatInt(now.UnixMilli(), 10))
}

// Category 为尺码分类。
type Category string

const (
	CategoryMen   Category = "men"
	CategoryWomen Category = "women"
)

// MeasurementFields 返回该分类允许的尺寸字段。
func (c Category) MeasurementFields() []string {
	if c == CategoryWomen {
		return []string{"bust", "waist", "hips", "shoulder", "length", "inseam", "height"}
	}
	return []string{"chest", "waist", "shoulder", "sleeve", "neck", "inseam", "height"}
}

// Fit 为版型偏好。
type Fit struct {
	Type    string `json:"type"`
	Comfort string `json:"comfort"`
	Waist   string `json:"waist"`
	Length  string `json:"length"`
	Notes   string `json:"notes"`
}

// DefaultFit 是未填写时使用的版型偏好。
func DefaultFit() Fit {
	return Fit{Type: "Slim fit", Comfort: "Regular", Waist: "Mid rise", Length: "Regular"}
}

// Profile 是一组已保存的身体尺寸与版型偏好。
type Profile struct {
	ID           ProfileID         `json:"id"`
	Name         string            `json:"name"`
	Category     Category          `json:"category"`
	Photo        string            `json:"photo,omitempty"`
	Measurements map[string]string `json:"measurements"`
	Fit          Fit               `json:"fit"`
	Timestamp    string            `json:"timestamp,omitempty"`
}
