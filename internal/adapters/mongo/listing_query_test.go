package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartrentsystem/backend/internal/domain/repositories"
)

func TestListingQuery_PartialCaseInsensitive(t *testing.T) {
	q := listingQuery(repositories.ListingFilter{Location: " lis ", PropertyType: "a.b", OwnerID: "o1"})

	assert.Equal(t, bson.M{"$regex": "lis", "$options": "i"}, q["location.city"])
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, q["propertyType"])
	assert.Equal(t, "o1", q["owner"])

	assert.Empty(t, listingQuery(repositories.ListingFilter{Location: "  "}))
}
