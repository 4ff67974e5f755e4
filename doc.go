// Package formkit encodes and decodes multipart/form-data bodies (RFC 7578).
//
// A [Form] is an ordered list of [Part] values bound to a boundary. Encoding is
// lazy: [Form.Chunks], [Form.Reader] and [Form.WriteTo] render one part header
// at a time and hand out part content as is, so large uploads are never
// copied into one buffer. [Form.ContentLength] gives the exact body size up
// front.
//
// Decoding goes the other way. A [Decoder] scans a body for the delimiter
// "--boundary" with a streaming Knuth-Morris-Pratt matcher (package
// streamsearch), carves out each section and parses it with [ParsePart].
// Sections are read from the source only as the caller iterates
// [Decoder.Parts].
//
// # Encoding
//
//	form := formkit.NewForm("XYZ",
//	    formkit.NewPart("title").WithContentString("Quarterly report"),
//	    formkit.NewFilePart("data", "q3.csv", csv),
//	)
//	if err := form.Validate(); err != nil {
//	    return err
//	}
//	req, _ := http.NewRequest("POST", url, form.Reader())
//	req.Header.Set("Content-Type", form.ContentType())
//	req.ContentLength = form.ContentLength()
//
// # Decoding
//
//	d, err := formkit.NewDecoder(boundary,
//	    formkit.WithPartLimit(10<<20),
//	    formkit.WithSkipMalformed(true),
//	    formkit.WithSelector(formkit.Files()),
//	)
//	for part, err := range d.Parts(ctx, r.Body) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(part.Name(), part.FileName(), part.Size())
//	}
//
// # Header parsing
//
// Header lines end at CR LF only; a bare LF is data. Header names are matched
// case-insensitively and unknown headers are skipped. The field name is taken
// from Content-Disposition with a permissive matcher: an unquoted value runs
// up to the next quote character, so name=a;b yields "a;b". A section without
// a name is reported as [ErrNoPartName].
//
// # Configuration
//
// [Service] builds forms and decoders from a [Config] loaded from BEAVER_FORMKIT_*
// environment variables, following the other gobeaver kits:
//
//	formkit.Init()
//	svc, _ := formkit.Default()
//	parts, err := svc.Decode(ctx, r.Header.Get("Content-Type"), r.Body)
//
// Part validation (sizes, extensions, detected content types) lives in the
// partvalidator package and plugs into a decoder with [WithValidator].
package formkit
