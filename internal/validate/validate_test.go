package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsReportsAllMissing(t *testing.T) {
	err := Fields(map[string]any{"name": "1984"},
		[]string{"name", "author", "year_published"}, nil)
	require.Error(t, err)
	// 缺失字段一次性全部报告
	assert.Equal(t, "missing required fields: author, year_published", err.Error())
}

func TestFieldsEnum(t *testing.T) {
	data := map[string]any{"city": "GOTHAM"}
	err := Fields(data, nil, map[string][]string{
		"city": {"TEL_AVIV", "JERUSALEM"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for city")
	assert.Contains(t, err.Error(), "TEL_AVIV")

	data["city"] = "JERUSALEM"
	assert.NoError(t, Fields(data, nil, map[string][]string{
		"city": {"TEL_AVIV", "JERUSALEM"},
	}))

	// 枚举字段缺失时不检查
	assert.NoError(t, Fields(map[string]any{}, nil, map[string][]string{
		"city": {"TEL_AVIV"},
	}))
}

func TestFieldsEmail(t *testing.T) {
	assert.Error(t, Fields(map[string]any{"email": "not-an-email"}, []string{"email"}, nil))
	assert.NoError(t, Fields(map[string]any{"email": "a@b.com"}, []string{"email"}, nil))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("noa.levi@example.co.il"))
	assert.False(t, Email("noa@"))
	assert.False(t, Email("@example.com"))
	assert.False(t, Email(""))
}

func TestAccessors(t *testing.T) {
	// encoding/json 把数值解码为 float64
	data := map[string]any{"name": "1984", "age": float64(29), "id": float64(7)}
	assert.Equal(t, "1984", String(data, "name"))
	assert.Equal(t, 29, Int(data, "age"))
	assert.Equal(t, int64(7), Int64(data, "id"))

	assert.Equal(t, "", String(data, "missing"))
	assert.Equal(t, 0, Int(data, "missing"))
	assert.Equal(t, int64(0), Int64(data, "missing"))
}
