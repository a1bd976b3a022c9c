package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestMessageResponse_Text(t *testing.T) {
	tests := []struct {
		name string
		resp MessageResponse
		want string
	}{
		{
			"single text block",
			MessageResponse{Content: []ContentBlock{{Type: "text", Text: "hello"}}},
			"hello",
		},
		{
			"multiple blocks concatenated",
			MessageResponse{Content: []ContentBlock{
				{Type: "text", Text: "one "},
				{Type: "text", Text: "two"},
			}},
			"one two",
		},
		{
			"non-text blocks skipped",
			MessageResponse{Content: []ContentBlock{
				{Type: "tool_use", Text: "ignored"},
				{Type: "text", Text: "kept"},
			}},
			"kept",
		},
		{"empty", MessageResponse{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Text())
		})
	}
}

func TestMockClient_CreateMessage(t *testing.T) {
	mc := &MockClient{}
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(&MessageResponse{
		ID:      "msg-1",
		Content: []ContentBlock{{Type: "text", Text: "reply"}},
	}, nil)

	resp, err := mc.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 64,
		Messages:  []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "reply", resp.Text())
	mc.AssertExpectations(t)
}
