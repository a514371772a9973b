package dto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrotek/service-desk/internal/ticket"
)

func TestSubmitTicketRequest_StagedFiles(t *testing.T) {
	t.Run("SizeComesFromContentNotTheDeclaredField", func(t *testing.T) {
		req := SubmitTicketRequest{Attachments: []StagedFileRequest{
			{Name: "photo.jpg", Size: 9999, Content: []byte("abc")},
		}}

		files := req.StagedFiles()
		require.Len(t, files, 1)
		assert.Equal(t, int64(3), files[0].Size)
	})

	t.Run("UndersizedDeclarationCannotSmuggleOversizedContent", func(t *testing.T) {
		oversized := bytes.Repeat([]byte{0xff}, ticket.MaxFileSize+1)
		req := SubmitTicketRequest{Attachments: []StagedFileRequest{
			{Name: "huge.bin", Size: 100, Content: oversized},
		}}

		stager := ticket.NewStager()
		result := stager.Add(req.StagedFiles())

		require.Len(t, result.Rejected, 1)
		assert.Equal(t, ticket.RejectTooLarge, result.Rejected[0].Reason)
		assert.Zero(t, stager.Count())
	})

	t.Run("PreservesOrder", func(t *testing.T) {
		req := SubmitTicketRequest{Attachments: []StagedFileRequest{
			{Name: "a.jpg", Content: []byte("a")},
			{Name: "b.jpg", Content: []byte("bb")},
		}}

		files := req.StagedFiles()
		require.Len(t, files, 2)
		assert.Equal(t, "a.jpg", files[0].Name)
		assert.Equal(t, "b.jpg", files[1].Name)
		assert.Equal(t, int64(2), files[1].Size)
	})
}
