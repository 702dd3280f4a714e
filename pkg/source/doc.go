// Package source loads view templates and data from the local disk or S3.
//
// A reference is either a file path or an s3://bucket/key URI:
//
//	l := source.NewLoader(source.WithS3(source.NewS3Store(client)))
//	doc, err := l.Template(ctx, "s3://site/views/index.html")
//	data, err := l.Data(ctx, "state.yaml")
//
// Data files hold one JSON or YAML object. Files ending in .json are decoded
// as JSON; everything else as YAML.
package source
