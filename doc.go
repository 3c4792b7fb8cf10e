// Package text is the home of the header text codec. The code lives in its
// subpackages:
//
//   - header/field turns the free-form text of unstructured header fields, such
//     as Subject and Comments, into the folded, 7-bit form that goes on the wire
//     and back again. Words that cannot be sent as they are become RFC 2047 Q
//     encoded-words and long values are folded to fit within 78 columns.
//   - header splits a raw header block into fields and reads a header off the
//     front of a message.
//   - header/encoding may be imported for its side effect of adding support for
//     nearly every charset found in mail to header/field.
//
// The hdrtext command in tools/hdrtext exposes the codec on the command line.
//
// A field holds either a value or no value at all. A field with no value is not
// output, while a field whose value is the empty string is output with an empty
// body:
//
//	f := field.New("Subject", "Her er æ ø å")
//	fmt.Print(f.Encoded()) // Subject: =?UTF-8?Q?Her_er_=C3=A6_=C3=B8_=C3=A5?=
//
// Decoding reverses the process, so a value always survives the round trip:
//
//	p, _ := field.Parse(f.Bytes())
//	v, _ := p.Decoded() // Her er æ ø å
package text
