package presenter

import (
	"github.com/johnquangdev/voice-memo/internal/adapter/dto/comment"
	"github.com/johnquangdev/voice-memo/internal/domain/entities"
)

// ToCommentResponse converts a Comment entity to CommentResponse DTO.
// lines resolve line-anchored comments and may be nil.
func ToCommentResponse(c entities.Comment, lines []entities.Line) comment.CommentResponse {
	return comment.CommentResponse{
		Comment: c,
		Anchor:  c.Anchor.Resolve(lines),
	}
}

// ToCommentResponses converts a list of Comment entities
func ToCommentResponses(cs entities.Comments, lines []entities.Line) []comment.CommentResponse {
	out := make([]comment.CommentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCommentResponse(c, lines))
	}
	return out
}

// ToListCommentsResponse builds the comment listing, with the parent grouping when threads is not nil
func ToListCommentsResponse(cs entities.Comments, threads map[string]entities.Comments, lines []entities.Line) *comment.ListCommentsResponse {
	resp := &comment.ListCommentsResponse{
		Comments: ToCommentResponses(cs, lines),
	}
	if threads != nil {
		resp.Threads = make(map[string][]comment.CommentResponse, len(threads))
		for parent, children := range threads {
			resp.Threads[parent] = ToCommentResponses(children, lines)
		}
	}
	return resp
}

// ToCommentEnvelope wraps a mutated comment
func ToCommentEnvelope(c *entities.Comment, lines []entities.Line) *comment.CommentEnvelope {
	if c == nil {
		return nil
	}
	return &comment.CommentEnvelope{
		OK:      true,
		Comment: ToCommentResponse(*c, lines),
	}
}
