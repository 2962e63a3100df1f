package workspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMessage = "Delivered-To: me@example.org\n" +
	"Return-Path: <bounce@example.com>\n" +
	"From: Bob <bob@example.com>\n" +
	"Subject: old subject\n" +
	"Message-ID: <abc123@mail.example.com>\n"

const sampleProcessed = "From: Bob<bob@[P_RPATH]>\n" +
	"Subject: old subject\n" +
	"Message-ID: <abc123[EID]@mail.example.com>\n"

func withFiles(names ...string) State {
	s := NewState()
	files := make([]File, len(names))
	for i, n := range names {
		files[i] = File{Name: n, Content: sampleMessage}
	}
	return Reduce(s, AddFiles{Files: files})
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	assert.True(t, s.Settings.RemoveReturnPath, "Return-Path removal should start enabled")
	assert.Empty(t, s.Files)
	assert.Empty(t, s.ProcessedContent)
}

func TestAddFilesKeepsOrder(t *testing.T) {
	s := withFiles("a.eml")
	s = Reduce(s, AddFiles{Files: []File{{Name: "b.eml"}, {Name: "c.eml"}}})

	require.Len(t, s.Files, 3)
	assert.Equal(t, "a.eml", s.Files[0].Name)
	assert.Equal(t, "b.eml", s.Files[1].Name)
	assert.Equal(t, "c.eml", s.Files[2].Name)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := withFiles("a.eml", "b.eml")
	before = Reduce(before, BatchProcess{})

	after := Reduce(before, AddFiles{Files: []File{{Name: "c.eml"}}})
	after.Batch[0].Content = "changed"
	after = Reduce(after, ClearFiles{})

	assert.Len(t, before.Files, 2)
	assert.Equal(t, sampleProcessed, before.Batch[0].Content)
	assert.Empty(t, after.Files)
}

func TestProcessPasted(t *testing.T) {
	s := Reduce(NewState(), SetPastedText{Text: sampleMessage})
	s = Reduce(s, ProcessPasted{})

	assert.Equal(t, sampleProcessed, s.ProcessedContent)
}

func TestProcessPastedIgnoresBlank(t *testing.T) {
	s := NewState()
	s.ProcessedContent = "previous"
	s = Reduce(s, SetPastedText{Text: "  \n\t"})
	s = Reduce(s, ProcessPasted{})

	assert.Equal(t, "previous", s.ProcessedContent)
}

func TestProcessUsesSettings(t *testing.T) {
	s := Reduce(NewState(), UpdateSettings{Settings: Settings{FromName: "Alice", Subject: "Hello"}})
	s = Reduce(s, SetPastedText{Text: sampleMessage})
	s = Reduce(s, ProcessPasted{})

	assert.Contains(t, s.ProcessedContent, "Delivered-To:", "Return-Path removal was switched off")
	assert.Contains(t, s.ProcessedContent, "From: Alice<bob@[P_RPATH]>")
	assert.Contains(t, s.ProcessedContent, "Subject: Hello\n")
}

func TestCombine(t *testing.T) {
	s := Reduce(withFiles("a.eml", "b.eml"), Combine{})

	assert.Equal(t, sampleProcessed+"\n__SEP__\n"+sampleProcessed, s.ProcessedContent)
	assert.Equal(t, 1, strings.Count(s.ProcessedContent, "__SEP__"))
}

func TestCombineWithoutFiles(t *testing.T) {
	s := NewState()
	s.ProcessedContent = "keep"

	assert.Equal(t, "keep", Reduce(s, Combine{}).ProcessedContent)
}

func TestBatchProcessNumbersInUploadOrder(t *testing.T) {
	s := Reduce(withFiles("first.eml", "second.txt"), BatchProcess{})

	require.Len(t, s.Batch, 2)
	assert.Equal(t, 1, s.Batch[0].Number)
	assert.Equal(t, "first.eml", s.Batch[0].Name)
	assert.Equal(t, sampleProcessed, s.Batch[0].Content)
	assert.Equal(t, 2, s.Batch[1].Number)
	assert.Equal(t, "processed_2_second.txt", s.Batch[1].DownloadName())

	item, ok := s.BatchItem(2)
	assert.True(t, ok)
	assert.Equal(t, "second.txt", item.Name)
	_, ok = s.BatchItem(3)
	assert.False(t, ok)
}

func TestBatchProcessWithoutFiles(t *testing.T) {
	assert.Empty(t, Reduce(NewState(), BatchProcess{}).Batch)
}

func TestSelectFile(t *testing.T) {
	s := withFiles("a.eml")
	s.Files = append(s.Files, File{Name: "b.eml", Content: "Message-ID: <x@y>"})

	s = Reduce(s, SelectFile{Number: "2"})

	assert.Equal(t, "2", s.FileNumber)
	assert.Equal(t, "Message-ID: <x[EID]@y>", s.ProcessedContent)
}

func TestSelectFileOutOfRangeIgnored(t *testing.T) {
	for _, n := range []string{"0", "3", "-1", "abc", ""} {
		t.Run(n, func(t *testing.T) {
			s := withFiles("a.eml", "b.eml")
			s.ProcessedContent = "unchanged"

			s = Reduce(s, SelectFile{Number: n})

			assert.Equal(t, "unchanged", s.ProcessedContent)
			assert.Equal(t, n, s.FileNumber)
		})
	}
}

func TestClean(t *testing.T) {
	s := withFiles("a.eml")
	s = Reduce(s, UpdateSettings{Settings: Settings{FromName: "A", Subject: "S", RemoveReturnPath: false}})
	s = Reduce(s, SetPastedText{Text: "x"})
	s = Reduce(s, BatchProcess{})
	s = Reduce(s, SelectFile{Number: "1"})

	s = Reduce(s, Clean{})

	assert.Empty(t, s.Files)
	assert.Empty(t, s.PastedText)
	assert.Empty(t, s.ProcessedContent)
	assert.Empty(t, s.Batch)
	assert.Empty(t, s.FileNumber)
	assert.Equal(t, Settings{RemoveReturnPath: false}, s.Settings, "toggle survives a clean")
}

func TestClearFilesKeepsResults(t *testing.T) {
	s := Reduce(withFiles("a.eml"), BatchProcess{})
	s = Reduce(s, Combine{})

	s = Reduce(s, ClearFiles{})

	assert.Empty(t, s.Files)
	assert.Len(t, s.Batch, 1)
	assert.NotEmpty(t, s.ProcessedContent)

	s = Reduce(s, ClearProcessed{})
	assert.Empty(t, s.ProcessedContent)
}
