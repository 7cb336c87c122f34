// Package har provides the typed model of an HTTP Archive capture and a strict
// decoder for it.
//
// A capture is decoded once and then only read:
//
//	doc, err := har.Load("capture.har")
//	if err != nil {
//	    var perr *har.ParseError
//	    if errors.As(err, &perr) {
//	        log.Printf("bad field at %s", perr.Location)
//	    }
//	    return err
//	}
//	fmt.Println(doc.EntryCount())
//
// # Strictness
//
// Every field of the model is required except a request's postData. A
// missing field, or a field with the wrong JSON type, is a [ParseError]
// whose Location is the JSON pointer of the offending value. Fields that the
// model stores as untyped values (cookies, cache, timings, serverIPAddress,
// connection, _transferSize and the pages list items) accept any JSON value,
// null included.
//
// The schema enforced by the decoder is available from [Schema] and
// [SchemaJSON].
package har
