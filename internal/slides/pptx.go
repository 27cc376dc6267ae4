package slides

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// modTime is stamped on every zip entry so identical decks produce
// identical bytes.
var modTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type part struct {
	name string
	body string
}

// WritePPTX serializes d as a .pptx package to w.
func WritePPTX(w io.Writer, d Deck) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("%w: deck has no slides", ErrEmptyDeck)
	}

	zw := zip.NewWriter(w)
	for _, p := range packageParts(d) {
		hdr := &zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modTime,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize package: %w", err)
	}
	return nil
}

// packageParts lists every part of the package in write order.
func packageParts(d Deck) []part {
	n := len(d.Slides)
	parts := []part{
		{"[Content_Types].xml", contentTypesXML(n)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(d.Title)},
		{"docProps/app.xml", appPropsXML(n)},
		{"ppt/presentation.xml", presentationXML(n)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(n)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", titleLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRelsXML},
		{"ppt/slideLayouts/slideLayout2.xml", contentLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", layoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
		{"ppt/presProps.xml", presPropsXML},
		{"ppt/viewProps.xml", viewPropsXML},
		{"ppt/tableStyles.xml", tableStylesXML},
	}
	for i, s := range d.Slides {
		num := strconv.Itoa(i + 1)
		parts = append(parts,
			part{"ppt/slides/slide" + num + ".xml", slideXML(s)},
			part{"ppt/slides/_rels/slide" + num + ".xml.rels", slideRelsXML(s.Kind)},
		)
	}
	return parts
}

func contentTypesXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlPI)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	override := func(name, ct string) {
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, name, ct)
	}
	override("ppt/presentation.xml", ctPresentation)
	override("ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	override("ppt/slideLayouts/slideLayout2.xml", ctSlideLayout)
	override("ppt/theme/theme1.xml", ctTheme)
	override("ppt/presProps.xml", ctPresProps)
	override("ppt/viewProps.xml", ctViewProps)
	override("ppt/tableStyles.xml", ctTableStyles)
	override("docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	override("docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml")
	for i := 1; i <= slides; i++ {
		override("ppt/slides/slide"+strconv.Itoa(i)+".xml", ctSlide)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func rootRelsXML() string {
	return xmlPI +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relTypeOfficeDoc + `" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`
}

func corePropsXML(title string) string {
	return xmlPI +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`<dc:creator>SpellDeck</dc:creator>` +
		`</cp:coreProperties>`
}

func appPropsXML(slides int) string {
	return xmlPI +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>SpellDeck</Application>` +
		`<Slides>` + strconv.Itoa(slides) + `</Slides>` +
		`</Properties>`
}

// Relationship ids in presentation.xml.rels: rId1 is the master, slides
// follow from rId2, then the property parts.
func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlPI)
	b.WriteString(`<p:presentation ` + nsA + ` ` + nsR + ` ` + nsP + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`<p:defaultTextStyle><a:lvl1pPr><a:defRPr lang="en-US"/></a:lvl1pPr></p:defaultTextStyle>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlPI)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	rel := func(id int, typ, target string) {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, typ, target)
	}
	rel(1, relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	for i := 1; i <= slides; i++ {
		rel(i+1, relTypeSlide, "slides/slide"+strconv.Itoa(i)+".xml")
	}
	next := slides + 2
	rel(next, relTypePresProps, "presProps.xml")
	rel(next+1, relTypeViewProps, "viewProps.xml")
	rel(next+2, relTypeTheme, "theme/theme1.xml")
	rel(next+3, relTypeTableStyles, "tableStyles.xml")
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideRelsXML(kind SlideKind) string {
	layout := "slideLayout2.xml"
	if kind == KindTitle {
		layout = "slideLayout1.xml"
	}
	return xmlPI +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relTypeSlideLayout + `" Target="../slideLayouts/` + layout + `"/>` +
		`</Relationships>`
}

func slideXML(s Slide) string {
	var b strings.Builder
	b.WriteString(xmlPI)
	b.WriteString(`<p:sld ` + nsA + ` ` + nsR + ` ` + nsP + `><p:cSld><p:spTree>`)
	b.WriteString(groupShapeHeader)
	if s.Kind == KindTitle {
		writeShape(&b, 2, "Title 1", `<p:ph type="ctrTitle"/>`, []Run{s.Title}, false)
		if s.Subtitle.Text != "" {
			writeShape(&b, 3, "Subtitle 2", `<p:ph type="subTitle" idx="1"/>`, []Run{s.Subtitle}, false)
		}
	} else {
		writeShape(&b, 2, "Title 1", `<p:ph type="title"/>`, []Run{s.Title}, false)
		writeShape(&b, 3, "Content Placeholder 2", `<p:ph idx="1"/>`, s.Body, s.Bullets)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func writeShape(b *strings.Builder, id int, name, placeholder string, runs []Run, bullets bool) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/>`, id, name)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>` + placeholder + `</p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr/><p:txBody><a:bodyPr><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	for _, r := range runs {
		b.WriteString(`<a:p>`)
		if !bullets {
			b.WriteString(`<a:pPr marL="0" indent="0"><a:buNone/></a:pPr>`)
		}
		fmt.Fprintf(b, `<a:r><a:rPr lang="en-US" sz="%d"`, r.Size)
		if r.Bold {
			b.WriteString(` b="1"`)
		}
		b.WriteString(` dirty="0">`)
		if r.Color != "" {
			fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.Color)
		}
		b.WriteString(`</a:rPr><a:t>` + escape(r.Text) + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

// escape XML-escapes s after dropping characters XML 1.0 cannot carry.
func escape(s string) string {
	clean := strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(clean))
	return b.String()
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
