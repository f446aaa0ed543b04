package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skitrack/skitrack-processing-service/internal/domain/entity"
	"github.com/skitrack/skitrack-processing-service/internal/domain/port"
	"github.com/skitrack/skitrack-processing-service/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProcessVideoUseCase struct {
	repo       port.JobRepository
	storage    port.VideoStorage
	tracker    port.AngleTracker
	transcoder port.Transcoder
	publisher  port.StatusPublisher
	dlq        port.DLQPublisher
	notifier   port.FailureNotifier
	logger     *zap.Logger
	tempDir    string
	maxRetry   int
}

type ProcessVideoConfig struct {
	TempDir    string
	MaxRetries int
}

func NewProcessVideoUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	tracker port.AngleTracker,
	transcoder port.Transcoder,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg ProcessVideoConfig,
) *ProcessVideoUseCase {
	return &ProcessVideoUseCase{
		repo:       repo,
		storage:    storage,
		tracker:    tracker,
		transcoder: transcoder,
		publisher:  publisher,
		dlq:        dlq,
		notifier:   notifier,
		logger:     logger,
		tempDir:    cfg.TempDir,
		maxRetry:   cfg.MaxRetries,
	}
}

func (uc *ProcessVideoUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessVideoUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.VideoProcessingMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.analyzeVideoPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *ProcessVideoUseCase) analyzeVideoPipeline(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoProcessingMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	// Per-job directory keeps concurrent pipelines from sharing any output
	// path.
	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download source video from MinIO
	dlStart := time.Now()
	ctx2, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctx2, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Run the marker-angle pipeline: raw annotated video + angle log
	trStart := time.Now()
	ctx3, spanTr := tracer.Start(ctx, "track_markers")
	rawVideoPath := filepath.Join(workDir, "processed_raw.mp4")
	logPath := filepath.Join(workDir, "angles.csv")
	result, err := uc.tracker.Track(ctx3, videoPath, rawVideoPath, logPath)
	if err != nil {
		spanTr.End()
		log.Error("marker tracking failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "track_markers: "+err.Error(), log)
	}
	spanTr.End()
	metrics.JobProcessingDuration.WithLabelValues("track").Observe(time.Since(trStart).Seconds())
	metrics.FramesProcessedTotal.Add(float64(result.FramesRead))
	metrics.AnglesMeasuredTotal.Add(float64(result.FramesWithAngle))

	// Transcode the raw annotated video to a playable profile. A raw output
	// without this pass is not a successful job.
	tcStart := time.Now()
	ctx4, spanTc := tracer.Start(ctx, "transcode")
	finalVideoPath := filepath.Join(workDir, "processed.mp4")
	if err := uc.transcoder.Transcode(ctx4, result.VideoPath, finalVideoPath); err != nil {
		spanTc.End()
		log.Error("transcode failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "transcode: "+err.Error(), log)
	}
	spanTc.End()
	metrics.JobProcessingDuration.WithLabelValues("transcode").Observe(time.Since(tcStart).Seconds())

	// Upload the annotated video and the angle log to MinIO
	upStart := time.Now()
	ctx5, spanUp := tracer.Start(ctx, "upload_results")
	videoKey := fmt.Sprintf("%s/processed_%s.mp4", msg.UserID, job.ID.String())
	if err := uc.storage.UploadResult(ctx5, videoKey, finalVideoPath, "video/mp4"); err != nil {
		spanUp.End()
		log.Error("annotated video upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_video: "+err.Error(), log)
	}
	angleLogKey := fmt.Sprintf("%s/angles_%s.csv", msg.UserID, job.ID.String())
	if err := uc.storage.UploadResult(ctx5, angleLogKey, result.LogPath, "text/csv"); err != nil {
		spanUp.End()
		log.Error("angle log upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_log: "+err.Error(), log)
	}
	spanUp.End()
	metrics.JobProcessingDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	// Mark completed
	job.MarkCompleted(videoKey, angleLogKey, result.FramesRead, result.FramesWithAngle, result.VideoDuration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("job completed successfully",
		zap.Int("frames_read", result.FramesRead),
		zap.Int("frames_with_angle", result.FramesWithAngle),
		zap.Float64("duration_secs", result.VideoDuration),
		zap.String("result_video_key", videoKey),
		zap.String("angle_log_key", angleLogKey),
	)

	return nil
}

func (uc *ProcessVideoUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoProcessingMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ProcessVideoUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.Job,
	msg entity.VideoProcessingMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *ProcessVideoUseCase) publishStatus(ctx context.Context, job *entity.Job, log *zap.Logger) {
	statusMsg := entity.VideoStatusMessage{
		JobID:           job.ID,
		UserID:          job.UserID,
		Status:          job.Status,
		VideoKey:        job.VideoKey,
		ResultVideoKey:  job.ResultVideoKey,
		AngleLogKey:     job.AngleLogKey,
		FramesRead:      job.FramesRead,
		FramesWithAngle: job.FramesWithAngle,
		Duration:        job.VideoDuration,
		ErrorMessage:    job.ErrorMessage,
		Attempt:         job.Attempt,
		MaxAttempts:     job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
