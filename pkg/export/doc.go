// Package export turns a record snapshot into a PDF file on disk. A Backend
// produces the PDF bytes (locally through the HTML renderer and a Rasterizer,
// or remotely through the /generate_pdf endpoint) and the Exporter writes them
// atomically as curriculo_<name>.pdf.
package export
