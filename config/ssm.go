package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterGetter is the subset of the SSM client used to read parameters by path.
type ParameterGetter interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSMParameters overlays parameters stored under SSM_PARAMETER_PATH onto the config map.
// A parameter named /portfolio/prod/SESSION_SECRET becomes the SESSION_SECRET key.
// Keys already present in the environment win over SSM values.
func LoadSSMParameters(ctx context.Context, cfg map[string]string) error {
	parameterPath := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return overlayParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath, cfg)
}

func overlayParameters(ctx context.Context, client ParameterGetter, parameterPath string, cfg map[string]string) error {
	logger := log.With().Str("component", "ssm").Logger()

	var nextToken *string
	loaded := 0
	for {
		out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(parameterPath),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return fmt.Errorf("get parameters under %s: %w", parameterPath, err)
		}

		for _, p := range out.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if existing, ok := cfg[key]; ok && strings.TrimSpace(existing) != "" {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			loaded++
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	logger.Info().Str("path", parameterPath).Int("loaded", loaded).Msg("Loaded parameters from SSM")
	return nil
}
