package core

import apperrors "github.com/iynfluencer/creator-service/internal/errors"

// Job state rejections shared by the job guard and the conditional hire update.
var (
	ErrJobSuspended = apperrors.Forbidden("You cannot perform this operation. This Job has been suspended!")
	ErrJobTaken     = apperrors.Forbidden("You cannot perform this operation. This Job has been taken!")
)
