// Package serializer reads and writes boutpkg documents as JSON, YAML or a
// flattened table.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.(serializer.Closer).Close()
//	err := w.Serialize(ctx, result)
//
// Reading picks the format from the file extension and accepts local paths
// and http(s) URLs:
//
//	req, err := serializer.FromFile[recipe.BuildRequest]("request.yaml")
//
// RespondJSON writes HTTP responses; HttpReader fetches remote documents
// with bounded timeouts.
package serializer
