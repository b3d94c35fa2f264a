package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"COOKIE_SECURE":    "false",
		"EMPTY":            "",
		"ACCEPTED_ORIGINS": " https://a.dev, ,https://b.dev ",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "MISSING", 8080))
	assert.False(t, GetBool(cfg, "COOKIE_SECURE", true))
	assert.True(t, GetBool(cfg, "MISSING", true))
	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(cfg, "ACCEPTED_ORIGINS"))
	assert.Nil(t, GetList(cfg, "MISSING"))
}

func TestSplit(t *testing.T) {
	key, value := split("DSN=host=x user=y")
	assert.Equal(t, "DSN", key)
	assert.Equal(t, "host=x user=y", value)

	key, value = split("FLAG")
	assert.Equal(t, "FLAG", key)
	assert.Empty(t, value)
}

type fakeParameterGetter struct {
	pages [][]types.Parameter
	calls int
	err   error
}

func (f *fakeParameterGetter) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++

	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestOverlayParameters(t *testing.T) {
	client := &fakeParameterGetter{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/SESSION_SECRET"), Value: aws.String("from-ssm")}},
		{{Name: aws.String("/portfolio/prod/DB_PASSWORD"), Value: aws.String("ssm-password")}},
	}}
	cfg := map[string]string{"DB_PASSWORD": "env-password"}

	require.NoError(t, overlayParameters(context.Background(), client, "/portfolio/prod", cfg))

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "from-ssm", cfg["SESSION_SECRET"])
	assert.Equal(t, "env-password", cfg["DB_PASSWORD"], "environment wins over SSM")
}

func TestOverlayParametersError(t *testing.T) {
	client := &fakeParameterGetter{err: errors.New("access denied")}
	err := overlayParameters(context.Background(), client, "/portfolio", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestLoadSSMParametersDisabled(t *testing.T) {
	assert.NoError(t, LoadSSMParameters(context.Background(), map[string]string{}))
}
