package auth

import (
	"context"
	"strings"

	"github.com/baechuer/contacts-service/internal/domain"
)

// UpdateAvatar stores the uploaded image and records its public URL on the user.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, upload AvatarUpload) (domain.User, error) {
	if s.avatars == nil {
		return domain.User{}, domain.ErrAvatarUploadDisabled()
	}
	if upload.Body == nil || upload.Size == 0 {
		return domain.User{}, domain.ErrMissingField("file")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return domain.User{}, domain.ErrInvalidField("file", "must be an image")
	}

	// fail before uploading for a user that no longer exists
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return domain.User{}, err
	}

	url, err := s.avatars.PutAvatar(ctx, userID, upload)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.SetAvatarURL(ctx, userID, url)
	if err != nil {
		return domain.User{}, err
	}

	s.audit("avatar_updated", map[string]string{"user_id": subjectOf(userID)})
	return u, nil
}
