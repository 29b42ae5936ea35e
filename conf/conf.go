package conf

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/luminara-app/backend/secgate"
)

// ObfuscatedKeyPrefix marks env values that went through
// secgate.ObfuscationCipher before landing in the environment. Values
// without the prefix are used as-is.
const ObfuscatedKeyPrefix = "obf:"

// GetAiApiKeyFromEnv resolves the inference provider api key. Local
// setups put it in GENAI_API_KEY directly, optionally obfuscated; hosted
// setups name an AWS secret in GENAI_API_KEY_SECRET_NAME instead.
func GetAiApiKeyFromEnv() string {
	if key := os.Getenv("GENAI_API_KEY"); key != "" {
		plain, err := DeobfuscateIfNeeded(key)
		if err != nil {
			panic(fmt.Sprintf("failed to decode GENAI_API_KEY: %v", err))
		}
		return plain
	}

	secretName := os.Getenv("GENAI_API_KEY_SECRET_NAME")
	if secretName == "" {
		panic("neither GENAI_API_KEY nor GENAI_API_KEY_SECRET_NAME is set")
	}
	secretValue, err := getSecretFromAWS(secretName)
	if err != nil {
		panic(fmt.Sprintf("failed to get ai api key from AWS: %v", err))
	}
	var secret struct {
		ApiKey string `json:"api_key"`
	}
	if err := json.Unmarshal([]byte(secretValue), &secret); err != nil {
		panic(fmt.Sprintf("failed to parse ai api key secret: %v", err))
	}
	return secret.ApiKey
}

// DeobfuscateIfNeeded reverses the obf: encoding on a value. Values
// without the prefix pass through unchanged.
func DeobfuscateIfNeeded(value string) (string, error) {
	if !strings.HasPrefix(value, ObfuscatedKeyPrefix) {
		return value, nil
	}
	plain, err := secgate.ObfuscationCipher{}.Decrypt(strings.TrimPrefix(value, ObfuscatedKeyPrefix))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// GetStoreBackendFromEnv picks the persistence backend. Defaults to
// memory so a bare checkout runs without infrastructure.
func GetStoreBackendFromEnv() string {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		return "memory"
	}
	switch backend {
	case "memory", "dynamodb":
		return backend
	}
	panic(fmt.Sprintf("unknown STORE_BACKEND %q, want memory or dynamodb", backend))
}

// GetRedisAddrFromEnv returns the shared counter store address. Empty
// means rate limit counters stay in-process.
func GetRedisAddrFromEnv() string {
	return os.Getenv("REDIS_ADDR")
}

func getSecretFromAWS(secretName string) (string, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return "", err
	}
	svc := secretsmanager.NewFromConfig(cfg)
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	result, err := svc.GetSecretValue(ctx, input)
	if err != nil {
		return "", err
	}
	return *result.SecretString, nil
}
