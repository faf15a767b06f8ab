package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/drivewell/maintenance-tracker/internal/models"
)

func testVehicle(mileage int, pace *float64) models.Vehicle {
	return models.Vehicle{
		ID:             primitive.NewObjectID(),
		Name:           "Daily driver",
		CurrentMileage: mileage,
		DailyMilesPace: pace,
	}
}

func mileageService(dueMileage int) models.Service {
	svc := testService()
	svc.ID = primitive.NewObjectID()
	svc.DueMileage = intPtr(dueMileage)
	return svc
}

func dateService(daysOut int) models.Service {
	svc := testService()
	svc.ID = primitive.NewObjectID()
	due := testNow.AddDate(0, 0, daysOut)
	svc.DueDate = &due
	return svc
}

func TestDetectClusters_DisabledReturnsNothing(t *testing.T) {
	settings := models.DefaultClusteringSettings()
	settings.Enabled = false

	services := []models.Service{mileageService(35000), mileageService(35200)}
	got := DetectClusters(services, testVehicle(34500, floatPtr(20)), settings, testNow, DefaultStatusThresholds())
	assert.Empty(t, got)
}

func TestDetectClusters_DegenerateMinimumSize(t *testing.T) {
	settings := models.DefaultClusteringSettings()
	settings.MinimumClusterSize = 1

	services := []models.Service{mileageService(35000), mileageService(35200)}
	got := DetectClusters(services, testVehicle(34500, floatPtr(20)), settings, testNow, DefaultStatusThresholds())
	assert.Empty(t, got)
}

func TestDetectClusters_TwoNearbyMileageServices(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      1000,
		DaysWindow:         14,
	}

	// 500 and 1300 miles out at 60 mi/day both project inside 30 days, and
	// the 800-mile gap fits the mileage window.
	a := mileageService(35000)
	b := mileageService(35800)
	vehicle := testVehicle(34500, floatPtr(60))

	got := DetectClusters([]models.Service{a, b}, vehicle, settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
	assert.Len(t, got[0].Services, 2)
	assert.Equal(t, vehicle.ID, got[0].VehicleID)
}

func TestDetectClusters_NotEnoughActionable(t *testing.T) {
	settings := models.DefaultClusteringSettings()

	services := []models.Service{
		mileageService(35000),  // due soon
		dateService(120),       // good
		testService(),          // neutral
	}
	got := DetectClusters(services, testVehicle(34500, floatPtr(20)), settings, testNow, DefaultStatusThresholds())
	assert.Empty(t, got)
}

func TestDetectClusters_GoodAndNeutralNeverMembers(t *testing.T) {
	settings := models.DefaultClusteringSettings()
	settings.DaysWindow = 365
	settings.MileageWindow = 100000

	services := []models.Service{
		dateService(-3),
		dateService(5),
		dateService(200), // good: wide windows must still not pull it in
		testService(),    // neutral
	}
	got := DetectClusters(services, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
	assert.Len(t, got[0].Services, 2)
	for _, svc := range got[0].Services {
		status := Status(svc, 34500, nil, testNow, DefaultStatusThresholds())
		assert.True(t, status.IsActionable())
	}
}

func TestDetectClusters_DateWindowFallback(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      500,
		DaysWindow:         7,
	}

	a := dateService(3)
	b := dateService(6)
	c := dateService(28) // actionable but outside the window of a and b

	got := DetectClusters([]models.Service{a, b, c}, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
	assert.Len(t, got[0].Services, 2)
}

func TestDetectClusters_MileageOrDateEitherSuffices(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      300,
		DaysWindow:         30,
	}

	// Far apart on mileage, close on projected date at a fast pace.
	a := mileageService(35000)
	b := mileageService(35600)
	vehicle := testVehicle(34900, floatPtr(200)) // 0.5 vs 3.5 days out

	got := DetectClusters([]models.Service{a, b}, vehicle, settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
}

func TestDetectClusters_MembershipExclusive(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      100,
		DaysWindow:         3,
	}

	services := []models.Service{
		dateService(-10), dateService(-9),
		dateService(5), dateService(6),
	}
	got := DetectClusters(services, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 2)

	seen := map[primitive.ObjectID]bool{}
	for _, cluster := range got {
		assert.GreaterOrEqual(t, len(cluster.Services), settings.MinimumClusterSize)
		for _, svc := range cluster.Services {
			assert.False(t, seen[svc.ID], "service assigned to two clusters")
			seen[svc.ID] = true
		}
	}
}

func TestDetectClusters_LaterAnchorGathersEarlierService(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 3,
		MileageWindow:      100,
		DaysWindow:         5,
	}

	// The most overdue service only reaches its immediate neighbor, so it
	// cannot anchor a cluster of three. The middle service reaches both and
	// must pull the earlier one in.
	a := dateService(-10)
	b := dateService(-6)
	c := dateService(-2)

	got := DetectClusters([]models.Service{a, b, c}, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].Anchor.ID)
	assert.Len(t, got[0].Services, 3)
}

func TestDetectClusters_AnchorIsMostUrgentMember(t *testing.T) {
	settings := models.DefaultClusteringSettings()
	settings.DaysWindow = 30

	overdue := dateService(-5)
	soon := dateService(10)

	got := DetectClusters([]models.Service{soon, overdue}, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 1)
	assert.Equal(t, overdue.ID, got[0].Anchor.ID)
	assert.Equal(t, overdue.ID, got[0].Services[0].ID)
}

func TestDetectClusters_MostUrgentClusterFirst(t *testing.T) {
	settings := models.ClusteringSettings{
		Enabled:            true,
		MinimumClusterSize: 2,
		MileageWindow:      100,
		DaysWindow:         3,
	}

	late := []models.Service{dateService(20), dateService(21)}
	early := []models.Service{dateService(-8), dateService(-7)}
	services := append(late, early...)

	got := DetectClusters(services, testVehicle(34500, nil), settings, testNow, DefaultStatusThresholds())
	assert.Len(t, got, 2)
	assert.Equal(t, models.StatusOverdue, Status(got[0].Anchor, 34500, nil, testNow, DefaultStatusThresholds()))
}

func TestPrimaryCluster(t *testing.T) {
	assert.Nil(t, PrimaryCluster(nil))
	assert.Nil(t, PrimaryCluster([]models.ServiceCluster{}))

	clusters := []models.ServiceCluster{
		{Anchor: dateService(-1)},
		{Anchor: dateService(5)},
	}
	primary := PrimaryCluster(clusters)
	assert.NotNil(t, primary)
	assert.Equal(t, clusters[0].Anchor.ID, primary.Anchor.ID)
}
