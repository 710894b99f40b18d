package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
)

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok && user != nil
}

// authorize gates a route on the casbin policy for the caller's role.
// message is returned to the client on denial.
func (s *Server) authorize(object, action, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if s.authzSvc == nil {
			AbortWithError(c, withMessage(ErrForbidden, message))
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), string(user.Role), object, action); err != nil {
			AbortWithError(c, withMessage(err, message))
			return
		}
		c.Next()
	}
}
