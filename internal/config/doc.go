// Package config loads bamboo.yaml, BAMBOO_* environment variables and
// command-line flags into a single Config.
//
// Sources are layered lowest to highest precedence:
//
//	defaults < bamboo.yaml < BAMBOO_* env < explicitly set flags
//
// Nested keys use "." as the delimiter, so the S3 region can be set with
// s3.region in the file, BAMBOO_S3_REGION in the environment, or the
// --s3-region flag.
package config
