package dfxml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ecs150fs/ecs150fs/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTrip(t *testing.T) {
	in := &dfxml.Report{
		Creator: dfxml.NewCreator("ecs150fs", "v1.0.0"),
		Source: dfxml.Source{
			ImageFilename: "disk.img",
			SectorSize:    4096,
			ImageSize:     4096 * 16,
		},
		Files: []dfxml.File{
			{
				Filename: "block00005.png",
				FileSize: 1234,
				Run:      dfxml.ByteRun{ImgOffset: 5 * 4096, Length: 1234},
			},
			{
				Filename: "block00009.pdf",
				FileSize: 99,
				Run:      dfxml.ByteRun{ImgOffset: 9 * 4096, Length: 99},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, dfxml.Write(&buf, in))
	require.True(t, strings.HasPrefix(buf.String(), "<?xml"))

	out, err := dfxml.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, "1.0", out.Version)
	require.Equal(t, in.Source, out.Source)
	require.Equal(t, in.Files, out.Files)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := dfxml.Read(strings.NewReader("not xml at all"))
	require.Error(t, err)
}
