package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/pkg/finance"
)

func toLines(items []request.LineRequest) []service.LineInput {
	if items == nil {
		return nil
	}
	out := make([]service.LineInput, len(items))
	for i, it := range items {
		out[i] = service.LineInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return out
}

// documentFilter reads ?search=&status=&overdue=&from=&to= for bill and
// invoice lists. The service validates the status value.
func documentFilter(c *gin.Context, loc *time.Location) (repository.DocumentFilter, bool) {
	from, ok := queryDate(c, "from", loc)
	if !ok {
		return repository.DocumentFilter{}, false
	}
	to, ok := queryDate(c, "to", loc)
	if !ok {
		return repository.DocumentFilter{}, false
	}
	return repository.DocumentFilter{
		Search:  c.Query("search"),
		Status:  finance.PaymentStatus(c.Query("status")),
		Overdue: c.Query("overdue") == "true" || c.Query("overdue") == "1",
		From:    from,
		To:      to,
	}, true
}
